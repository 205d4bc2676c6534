package install

import (
	"fmt"
	"io"
	"os"

	"github.com/Jeffail/gabs"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

// InstallFabric implements spec.md §4.6.2's Fabric installer: the
// loader profile endpoint already returns a ready-to-use version
// descriptor, so installation is just "fetch, persist under its own
// id". Grounded on the teacher's getJSONFromURL + writeJSON pattern
// (util.go) generalised from curseforge manifests to loader profiles.
func (p *Pipeline) InstallFabric(mcVersion, fabricVersion string) (string, error) {
	url := fmt.Sprintf("https://meta.fabricmc.net/v2/versions/loader/%s/%s/profile/json", mcVersion, fabricVersion)
	return p.installLoaderProfile(url)
}

// InstallQuilt mirrors InstallFabric against Quilt's meta server, the
// same descriptor shape per spec.md §4.6.2.
func (p *Pipeline) InstallQuilt(mcVersion, quiltVersion string) (string, error) {
	url := fmt.Sprintf("https://meta.quiltmc.org/v3/versions/loader/%s/%s/profile/json", mcVersion, quiltVersion)
	return p.installLoaderProfile(url)
}

func (p *Pipeline) installLoaderProfile(url string) (string, error) {
	resp, err := p.deps.HTTP.Get(url)
	if err != nil {
		return "", conicerr.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", conicerr.IO(err)
	}

	profile, err := gabs.ParseJSON(raw)
	if err != nil {
		return "", conicerr.JSONParse(err)
	}
	id, _ := profile.Path("id").Data().(string)
	if id == "" {
		return "", conicerr.InvalidVersionJSON("id")
	}

	if err := os.MkdirAll(p.deps.Layout.VersionDir(id), 0o755); err != nil {
		return "", conicerr.IO(err)
	}
	if err := os.WriteFile(p.deps.Layout.VersionJSON(id), raw, 0o644); err != nil {
		return "", conicerr.IO(err)
	}
	return id, nil
}
