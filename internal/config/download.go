package config

import "github.com/conicapps/launcher-core/internal/download"

// MirrorConfig mirrors crates/config/src/download.rs's MirrorConfig:
// ordered mirror candidates for libraries and assets.
type MirrorConfig struct {
	Libraries []string `toml:"libraries"`
	Assets    []string `toml:"assets"`
}

// DownloadConfig mirrors crates/config/src/download.rs's
// DownloadConfig: concurrency cap, speed throttle, mirror set.
type DownloadConfig struct {
	MaxConnections   int           `toml:"max_connections"`
	MaxDownloadSpeed uint64        `toml:"max_download_speed"`
	Mirror           MirrorConfig  `toml:"mirror"`
}

const defaultMaxConnections = 100

// DefaultDownloadConfig mirrors crates/config/src/download.rs's
// impl Default for DownloadConfig.
func DefaultDownloadConfig() DownloadConfig {
	mirrors := download.DefaultMirrorSet()
	return DownloadConfig{
		MaxConnections:   defaultMaxConnections,
		MaxDownloadSpeed: 0,
		Mirror: MirrorConfig{
			Libraries: mirrors.Libraries,
			Assets:    mirrors.Assets,
		},
	}
}

// ToEngineConfig converts the on-disk shape into the download engine's
// runtime Config (internal/download.Config), the two packages'
// boundary per spec.md §4.5/§1.3.
func (dc DownloadConfig) ToEngineConfig() download.Config {
	return download.Config{
		MaxConnections:   dc.MaxConnections,
		MaxDownloadSpeed: dc.MaxDownloadSpeed,
		Mirror: download.MirrorSet{
			Libraries: dc.Mirror.Libraries,
			Assets:    dc.Mirror.Assets,
		},
	}
}
