// Package config persists the launcher's global config.toml and each
// instance's instance.toml, mirroring crates/config/src/{lib,download,
// launch,instance}.rs field-for-field. Grounded on
// dilllxd-theboys-launcher's use of github.com/BurntSushi/toml for its
// own settings file, and on the teacher's util.go temp-file-then-rename
// write idiom (reused here via jsonStore's sibling shape in
// internal/account).
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

// Config is the top-level config.toml document: download tunables and
// the global launch defaults every instance inherits unless overridden
// by its own instance.toml, per spec.md §1.3/§4.8 step 2.
type Config struct {
	Download DownloadConfig `toml:"download"`
	Launch   LaunchConfig   `toml:"launch"`
}

// DefaultConfig mirrors crates/config/src/lib.rs's impl Default for
// Config, minus the GUI-facing account-selection/appearance/
// accessibility/update-channel fields the original source also
// carries — out of scope per spec.md §1 "user-facing configuration
// persistence".
func DefaultConfig() Config {
	return Config{
		Download: DefaultDownloadConfig(),
		Launch:   DefaultLaunchConfig(),
	}
}

// Load reads config.toml at path. A missing file yields DefaultConfig,
// which is then written out; an existing file has any missing fields
// filled from the zero value's toml defaults are not auto-applied by
// BurntSushi/toml, so Load seeds from DefaultConfig before decoding,
// matching crates/config/src/lib.rs's serde(default = ...) behaviour
// field-by-field. The result is always rewritten, mirroring
// load_config_file's "migration" semantics (spec.md §6).
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	existed, err := decodeTOMLOrDefault(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}
	_ = existed
	return cfg, nil
}

// Save writes cfg to path as pretty-printed TOML, atomically via a
// temp-file-then-rename, the teacher's write idiom generalised to TOML.
func Save(path string, cfg Config) error {
	return encodeTOML(path, cfg)
}

// decodeTOMLOrDefault decodes path into dst if it exists, leaving dst
// untouched (so caller-seeded defaults survive) when the file is
// absent. Returns whether the file existed.
func decodeTOMLOrDefault(path string, dst interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, conicerr.IO(err)
	}
	if _, err := toml.Decode(string(data), dst); err != nil {
		return false, conicerr.JSONParse(err)
	}
	return true, nil
}

func encodeTOML(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return conicerr.IO(err)
	}
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return conicerr.IO(err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return conicerr.IO(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return conicerr.IO(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return conicerr.IO(err)
	}
	return nil
}
