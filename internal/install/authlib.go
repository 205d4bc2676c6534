package install

import (
	"io"
	"os"

	"github.com/Jeffail/gabs"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/download"
)

const authlibInjectorLatestURL = "https://authlib-injector.yushi.moe/artifact/latest.json"

// InstallAuthlibInjector implements spec.md §4.6.4: resolve the latest
// authlib-injector artifact descriptor and download its jar, sha256
// verified, to the version directory so Yggdrasil/authlib-injector
// accounts can attach it as a javaagent at launch.
func (p *Pipeline) InstallAuthlibInjector(versionID string) error {
	resp, err := p.deps.HTTP.Get(authlibInjectorLatestURL)
	if err != nil {
		return conicerr.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return conicerr.IO(err)
	}
	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return conicerr.JSONParse(err)
	}

	url, _ := parsed.Path("download_url").Data().(string)
	checksum, _ := parsed.Path("checksums.sha256").Data().(string)
	if url == "" || checksum == "" {
		return conicerr.InvalidVersionJSON("download_url/checksums.sha256")
	}

	target := p.deps.Layout.AuthlibInjectorJar(versionID)
	if err := os.MkdirAll(p.deps.Layout.VersionDir(versionID), 0o755); err != nil {
		return conicerr.IO(err)
	}

	task := download.Task{
		URL:        url,
		TargetPath: target,
		Checksum:   download.Checksum{Kind: download.ChecksumSha256, Hex: checksum},
		Kind:       download.KindAuthlibInjector,
	}
	return p.deps.Download.Download(task, nil)
}
