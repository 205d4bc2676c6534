package launch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/layout"
	"github.com/conicapps/launcher-core/internal/platform"
	"github.com/conicapps/launcher-core/internal/version"
)

// templateRegex matches `${name}` placeholders in JVM/game argument
// templates, per spec.md §4.8.1's "Replacement regex: \$\{([^}]+)\}".
var templateRegex = regexp.MustCompile(`\$\{([^}]+)}`)

// substitute replaces every ${key} in template with args[key], leaving
// unknown keys untouched. When quoteSpaces is true (game args only,
// per spec.md §4.8.1), values containing a space are wrapped in
// double quotes.
func substitute(template string, args map[string]string, quoteSpaces bool) string {
	return templateRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-1]
		value, ok := args[key]
		if !ok {
			return match
		}
		if quoteSpaces && strings.Contains(value, " ") {
			return `"` + value + `"`
		}
		return value
	})
}

// buildArgv implements spec.md §4.8.1's full argument order:
// system props → memory → cert/patch flags → gc block → extra-jvm →
// resolved jvm args → main class → resolved game args → extra-mc →
// server/window/demo flags.
func buildArgv(l *layout.Layout, rv *version.ResolvedVersion, instanceRoot string, opts EffectiveOptions, launcherVersion string, account AccountRef) ([]string, error) {
	var argv []string

	jarPath := versionJarPath(l, rv)
	argv = append(argv, fmt.Sprintf("-Dminecraft.client.jar=%s", jarPath))
	if platform.Current.OSFamily == platform.MacOS {
		argv = append(argv, "-Xdock:name=Minecraft")
		argv = append(argv, "-Xdock:icon="+filepath.Join(l.AssetsDir(), "minecraft.icns"))
	}

	if opts.MinMemory > 0 {
		argv = append(argv, fmt.Sprintf("-Xms%dM", opts.MinMemory))
	}
	if opts.MaxMemory > 0 {
		argv = append(argv, fmt.Sprintf("-Xmx%dM", opts.MaxMemory))
	}
	if opts.IgnoreInvalidMinecraftCertificates {
		argv = append(argv, "-Dfml.ignoreInvalidMinecraftCertificates=true")
	}
	if opts.IgnorePatchDiscrepancies {
		argv = append(argv, "-Dfml.ignorePatchDiscrepancies=true")
	}
	argv = append(argv, opts.GC.JVMFlags()...)

	nativesRoot := l.NativesRoot(rv.ID)
	classpath, err := resolveClasspath(l, rv, jarPath, opts.ExtraClassPaths, nativesRoot)
	if err != nil {
		return nil, err
	}

	jvmArgs := map[string]string{
		"natives_directory": nativesRoot,
		"launcher_name":     opts.LauncherName,
		"launcher_version":  launcherVersion,
		"classpath":         classpath,
		"version_name":      rv.ID,
		"library_directory": l.LibrariesDir(),
	}

	if fields := strings.Fields(opts.ExtraJVMArgs); len(fields) > 0 {
		argv = append(argv, fields...)
	}
	logArg := logConfigArgument(l, rv)
	if logArg != "" {
		argv = append(argv, logArg)
	}
	for _, tmpl := range rv.JVMArguments {
		argv = append(argv, substitute(tmpl, jvmArgs, false))
	}

	mainClass := rv.MainClass
	if mainClass == "" {
		mainClass = "net.minecraft.client.main.Main"
	}
	argv = append(argv, mainClass)

	gameArgs := map[string]string{
		"version_name":      rv.ID,
		"version_type":      rv.Type,
		"assets_root":       l.AssetsDir(),
		"asset_index":       rv.AssetIndex.ID,
		"assets_index_name": rv.Assets,
		"game_assets":       filepath.Join(l.AssetsDir(), "virtual", rv.Assets),
		"game_directory":    instanceRoot,
		"auth_player_name":  opts.Identity.DisplayName,
		"auth_uuid":         opts.Identity.UUID,
		"auth_access_token": opts.Identity.AccessToken,
		"user_properties":   opts.Properties,
		"user_type":         userType(account),
		"resolution_width":  fmt.Sprint(opts.Width),
		"resolution_height": fmt.Sprint(opts.Height),
	}
	for _, tmpl := range rv.GameArguments {
		argv = append(argv, substitute(tmpl, gameArgs, true))
	}

	if fields := strings.Fields(opts.ExtraMCArgs); len(fields) > 0 {
		argv = append(argv, fields...)
	}

	if opts.Server != nil {
		argv = append(argv, "--server", opts.Server.IP)
		if opts.Server.Port != 0 {
			argv = append(argv, "--port", fmt.Sprint(opts.Server.Port))
		}
	}

	if opts.Fullscreen {
		argv = append(argv, "--fullscreen")
	} else if !containsArg(argv, "--width") {
		argv = append(argv, "--width", fmt.Sprint(opts.Width), "--height", fmt.Sprint(opts.Height))
	}

	if opts.IsDemo {
		argv = append(argv, "--demo")
	}

	return argv, nil
}

// logConfigArgument reproduces crates/launch/src/arguments.rs's
// inline-quoted log4j2 argument injection, only emitted when the
// version carries a "client" logging block and its config file exists
// on disk (install.InstallVanilla always writes one, per spec.md
// §4.6.1 step 5).
func logConfigArgument(l *layout.Layout, rv *version.ResolvedVersion) string {
	if rv.Logging.Argument == "" {
		return ""
	}
	logConfigPath := l.LogConfigPath(rv.ID)
	if _, err := os.Stat(logConfigPath); err != nil {
		return ""
	}
	return `"` + strings.ReplaceAll(rv.Logging.Argument, "${path}", logConfigPath) + `"`
}

func containsArg(argv []string, name string) bool {
	for _, a := range argv {
		if a == name {
			return true
		}
	}
	return false
}

// versionJarPath is the client jar of the deepest inheritance
// ancestor, or the version's own jar if it has no ancestors, per
// spec.md §4.8.1's classpath-build rule (the same jar doubles as the
// -Dminecraft.client.jar system property).
func versionJarPath(l *layout.Layout, rv *version.ResolvedVersion) string {
	id := rv.ID
	if len(rv.Inheritances) > 0 {
		id = rv.Inheritances[len(rv.Inheritances)-1]
	}
	return l.VersionJar(id)
}

// resolveClasspath implements spec.md §4.8.1's classpath build: native
// libraries are unzipped into nativesRoot (not added to classpath);
// everything else is appended in order, followed by the user's extra
// classpath and finally the resolved client jar.
func resolveClasspath(l *layout.Layout, rv *version.ResolvedVersion, jarPath, extraClassPaths, nativesRoot string) (string, error) {
	var entries []string
	for _, lib := range rv.Libraries {
		path := l.LibraryPath(lib.Path)
		if lib.Kind == version.LibraryNative {
			if err := unzipInto(path, nativesRoot); err != nil && !os.IsNotExist(err) {
				return "", err
			}
			continue
		}
		entries = append(entries, path)
	}

	if strings.TrimSpace(extraClassPaths) != "" {
		entries = append(entries, extraClassPaths)
	}

	entries = append(entries, jarPath)

	return strings.Join(entries, platform.Current.Delimiter()), nil
}

// unzipInto recursively extracts every file entry of the zip at
// jarPath under dest, creating parent directories as needed, mirroring
// crates/launch/src/arguments.rs's decompression_all.
func unzipInto(jarPath, dest string) error {
	f, err := os.Open(jarPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	archive, err := zip.NewReader(f, info.Size())
	if err != nil {
		return conicerr.IO(err)
	}

	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(entry.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return conicerr.IO(err)
		}
		rc, err := entry.Open()
		if err != nil {
			return conicerr.IO(err)
		}
		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return conicerr.IO(err)
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		out.Close()
		if copyErr != nil {
			return conicerr.IO(copyErr)
		}
	}
	return nil
}
