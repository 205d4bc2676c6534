package install

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

const neoforgedVersionsURL = "https://maven.neoforged.net/api/maven/versions/releases/net/neoforged/neoforge"

// ListNeoForgedVersions fetches and filters NeoForged releases whose
// mcversion prefix matches mcVersion, per spec.md §8 scenario 4: for
// "1.20.1" keep versions whose first segment is "20" and second is
// "1"; for "1.21" (no patch) keep first segment "21", second "0".
func (p *Pipeline) ListNeoForgedVersions(mcVersion string) ([]string, error) {
	resp, err := p.deps.HTTP.Get(neoforgedVersionsURL)
	if err != nil {
		return nil, conicerr.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, conicerr.IO(err)
	}

	all, err := parseNeoForgedVersionList(raw)
	if err != nil {
		return nil, err
	}

	wantMajor, wantMinor, err := neoforgedMcSegments(mcVersion)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, v := range all {
		sv, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if int(sv.Major()) == wantMajor && int(sv.Minor()) == wantMinor {
			out = append(out, v)
		}
	}
	return out, nil
}

// neoforgedMcSegments computes the (major, minor) NeoForged version
// segments that correspond to mcVersion's second and third dotted
// segments, per the worked example in spec.md §8.4: "1.20.1" requires
// NeoForged major=20, minor=1; "1.21" (no patch) requires major=21,
// minor=0.
func neoforgedMcSegments(mcVersion string) (major, minor int, err error) {
	segments := strings.Split(mcVersion, ".")
	if len(segments) < 2 {
		return 0, 0, conicerr.InvalidVersionJSON("minecraft version")
	}
	major, err = strconv.Atoi(segments[1])
	if err != nil {
		return 0, 0, conicerr.InvalidVersionJSON("minecraft version")
	}
	if len(segments) >= 3 {
		minor, err = strconv.Atoi(segments[2])
		if err != nil {
			return 0, 0, conicerr.InvalidVersionJSON("minecraft version")
		}
	}
	return major, minor, nil
}

// InstallNeoForged downloads and runs the NeoForged installer jar for
// neoforgedVersion, per spec.md §4.6.2.
func (p *Pipeline) InstallNeoForged(neoforgedVersion, javaExe string) error {
	installerURL := fmt.Sprintf(
		"https://maven.neoforged.net/releases/net/neoforged/neoforge/%s/neoforge-%s-installer.jar",
		neoforgedVersion, neoforgedVersion,
	)

	tmpDir, err := p.deps.Layout.NewTempDir("neoforged-installer")
	if err != nil {
		return conicerr.IO(err)
	}
	defer os.RemoveAll(tmpDir)

	installerPath := filepath.Join(tmpDir, "neoforge-installer.jar")
	if err := p.downloadInstaller(installerURL, installerPath); err != nil {
		return conicerr.NeoForgedInstallerFailed(err)
	}

	cmd := exec.Command(javaExe, "-jar", installerPath, "--installClient", p.deps.Layout.Root)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout

	if err := cmd.Run(); err != nil {
		return conicerr.NeoForgedInstallerFailed(err)
	}
	if !strings.Contains(stdout.String(), "Successfully installed client into launcher") {
		return conicerr.NeoForgedInstallerFailed(fmt.Errorf("installer output did not indicate success: %s", stdout.String()))
	}
	return nil
}
