package install

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/platform"
)

const forgeInstallerURLFmt = "https://bmclapi2.bangbang93.com/forge/download/%s-%s"

// forgeBootstrapMajor is the Forge major version (spec.md §4.6.2) at
// which the installer jar stops being directly runnable and needs the
// launcher's bundled bootstrap adapter on the classpath.
const forgeBootstrapMajor = 25

// InstallForge downloads the Forge installer jar for mcVersion/forgeVersion
// and runs it, per spec.md §4.6.2. javaExe is the Java executable to
// invoke the installer with (resolved by the caller from the Java
// runtime installer). libs is the vanilla version's resolved library
// list; for Forge <legacyPackMajor it drives a repair pass over
// libraries the installer left as pack200+xz archives.
func (p *Pipeline) InstallForge(mcVersion, forgeVersion, javaExe string, libs []legacyLibraryRef) error {
	installerURL := fmt.Sprintf(forgeInstallerURLFmt, mcVersion, forgeVersion)
	tmpDir, err := p.deps.Layout.NewTempDir("forge-installer")
	if err != nil {
		return conicerr.IO(err)
	}
	defer os.RemoveAll(tmpDir)

	installerPath := filepath.Join(tmpDir, "forge-installer.jar")
	if err := p.downloadInstaller(installerURL, installerPath); err != nil {
		os.Remove(installerPath)
		return conicerr.ForgeInstallerFailed(err)
	}

	major, err := forgeMajorVersion(forgeVersion)
	if err != nil {
		os.Remove(installerPath)
		return conicerr.ForgeInstallerFailed(err)
	}

	var cmd *exec.Cmd
	if major >= forgeBootstrapMajor {
		bootstrapPath := filepath.Join(tmpDir, "forge-bootstrap.jar")
		if err := p.writeForgeBootstrap(bootstrapPath); err != nil {
			os.Remove(installerPath)
			return conicerr.ForgeInstallerFailed(err)
		}
		classpath := bootstrapPath + platform.Current.Delimiter() + installerPath
		cmd = exec.Command(javaExe, "-cp", classpath, "com.bangbang93.ForgeInstaller", p.deps.Layout.Root)
	} else {
		cmd = exec.Command(javaExe, "-jar", installerPath, "--installClient", p.deps.Layout.Root)
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout

	if err := cmd.Run(); err != nil {
		os.Remove(installerPath)
		return conicerr.ForgeInstallerFailed(err)
	}

	if !forgeSucceeded(stdout.String()) {
		os.Remove(installerPath)
		return conicerr.ForgeInstallerFailed(fmt.Errorf("installer output did not indicate success: %s", stdout.String()))
	}

	if major < legacyPackMajor && len(libs) > 0 {
		if err := p.repairLegacyLibraries(libs); err != nil {
			return err
		}
	}
	return nil
}

// forgeSucceeded implements spec.md §4.6.2's "stdout containing the
// literal line `true` followed by EOF" success detection.
func forgeSucceeded(output string) bool {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) == 0 {
		return false
	}
	return strings.TrimSpace(lines[len(lines)-1]) == "true"
}

func forgeMajorVersion(forgeVersion string) (int, error) {
	parts := strings.SplitN(forgeVersion, ".", 2)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, conicerr.InvalidVersionJSON("forge version")
	}
	return major, nil
}

func (p *Pipeline) downloadInstaller(url, target string) error {
	resp, err := p.deps.HTTP.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.ReadFrom(resp.Body)
	return err
}

// writeForgeBootstrap stands in for the bootstrap adapter jar that
// Forge 25+ installers require to run headlessly (spec.md §4.6.2). No
// jar resource is embedded in this build: it writes nothing to path and
// always returns ForgeInstallerFailed.
func (p *Pipeline) writeForgeBootstrap(path string) error {
	return conicerr.ForgeInstallerFailed(fmt.Errorf("bundled bootstrap resource %s not embedded in this build", path))
}

