package install

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Jeffail/gabs"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/download"
	"github.com/conicapps/launcher-core/internal/platform"
	"github.com/conicapps/launcher-core/internal/progress"
	"github.com/conicapps/launcher-core/internal/version"
)

const javaPlatformManifestURL = "https://launchermeta.mojang.com/v1/products/java-runtime/2ec0cc96c44e5a76b9c8b7c39df7210883d12871/all.json"

// javaManifestKey indexes Mojang's all.json by "<os-family>[-arch-variant]",
// per spec.md §4.6.3 step 2.
func javaManifestKey(p platform.Info) string {
	switch p.OSFamily {
	case platform.Windows:
		if p.Arch == "x86" {
			return "windows-x86"
		}
		if p.Arch == "aarch64" {
			return "windows-arm64"
		}
		return "windows-x64"
	case platform.MacOS:
		if p.Arch == "aarch64" {
			return "mac-os-arm64"
		}
		return "mac-os"
	default:
		if p.Arch == "aarch64" {
			return "linux-arm64"
		}
		return "linux"
	}
}

// JavaFileKind tags the three tagged-enum variants spec.md §4.6.3
// step 3 describes for a Java runtime's file manifest.
type JavaFileKind int

const (
	JavaFileRegular JavaFileKind = iota
	JavaFileDirectory
	JavaFileLink
)

// JavaFileEntry is one path → FileInfo record of a runtime's manifest.
type JavaFileEntry struct {
	Path       string
	Kind       JavaFileKind
	URL        string
	SHA1       string
	Size       int64
	Executable bool
	LinkTarget string
}

// InstallJavaRuntime implements spec.md §4.6.3: resolve the platform
// manifest entry for componentName, fetch its file manifest, download
// every File entry, then replay Directory/Link/executable-bit
// semantics in a post-install pass.
func (p *Pipeline) InstallJavaRuntime(componentName string, prog *progress.Progress) error {
	resp, err := p.deps.HTTP.Get(javaPlatformManifestURL)
	if err != nil {
		return conicerr.Network(err)
	}
	defer resp.Body.Close()

	manifest, err := gabs.ParseJSONBuffer(resp.Body)
	if err != nil {
		return conicerr.JSONParse(err)
	}

	key := javaManifestKey(platform.Current)
	platformNode := manifest.Path(key)
	if platformNode == nil || platformNode.Data() == nil {
		return conicerr.NoSupportedJavaRuntime()
	}

	componentNode := platformNode.Path(componentName)
	entries, err := componentNode.Children()
	if err != nil || len(entries) == 0 {
		return conicerr.NoSupportedJavaRuntime()
	}
	manifestURL, _ := entries[0].Path("manifest.url").Data().(string)
	if manifestURL == "" {
		return conicerr.NoSupportedJavaRuntime()
	}

	root := p.javaRuntimeRoot(componentName)
	fileEntries, err := p.fetchJavaFileManifest(manifestURL)
	if err != nil {
		return err
	}

	if prog == nil {
		prog = progress.New(0)
	}
	tasks := javaDownloadTasks(fileEntries, root)
	if err := p.deps.Download.DownloadConcurrent(tasks, prog, p.deps.Config); err != nil {
		return err
	}

	return applyJavaPostInstall(fileEntries, root)
}

func (p *Pipeline) javaRuntimeRoot(componentName string) string {
	return filepath.Join(p.deps.Layout.Root, "java-runtimes", componentName)
}

// JavaExecutablePath returns the path to the java binary inside a
// component runtime installed by InstallJavaRuntime, mirroring the
// original source's DATA_LOCATION.default_jre shape
// (<root>/java-runtimes/<component>/bin/java[.exe]); internal/launch uses it to
// locate the executable its launch script invokes.
func (p *Pipeline) JavaExecutablePath(componentName string) string {
	bin := "java"
	if runtime.GOOS == "windows" {
		bin = "java.exe"
	}
	return filepath.Join(p.javaRuntimeRoot(componentName), "bin", bin)
}

// JavaComponentFor resolves the runtime component name Install would have
// used for rv, falling back to defaultJavaComponent the same way Install
// does; internal/launch uses it so the script it generates invokes the
// same runtime the installer actually laid down.
func JavaComponentFor(rv *version.ResolvedVersion) string {
	if rv.JavaVersion.Component != "" {
		return rv.JavaVersion.Component
	}
	return defaultJavaComponent
}

func (p *Pipeline) fetchJavaFileManifest(url string) (map[string]JavaFileEntry, error) {
	resp, err := p.deps.HTTP.Get(url)
	if err != nil {
		return nil, conicerr.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, conicerr.IO(err)
	}
	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return nil, conicerr.JSONParse(err)
	}

	files, err := parsed.Path("files").ChildrenMap()
	if err != nil {
		return nil, conicerr.InvalidVersionJSON("files")
	}

	entries := make(map[string]JavaFileEntry, len(files))
	for path, node := range files {
		kind, _ := node.Path("type").Data().(string)
		entry := JavaFileEntry{Path: path}
		switch kind {
		case "directory":
			entry.Kind = JavaFileDirectory
		case "link":
			entry.Kind = JavaFileLink
			entry.LinkTarget, _ = node.Path("target").Data().(string)
		default:
			entry.Kind = JavaFileRegular
			entry.URL, _ = node.Path("downloads.raw.url").Data().(string)
			entry.SHA1, _ = node.Path("downloads.raw.sha1").Data().(string)
			if v, ok := node.Path("downloads.raw.size").Data().(float64); ok {
				entry.Size = int64(v)
			}
			entry.Executable, _ = node.Path("executable").Data().(bool)
		}
		entries[path] = entry
	}
	return entries, nil
}

func javaDownloadTasks(entries map[string]JavaFileEntry, root string) []download.Task {
	var tasks []download.Task
	for relPath, entry := range entries {
		if entry.Kind != JavaFileRegular {
			continue
		}
		tasks = append(tasks, download.Task{
			URL:        entry.URL,
			TargetPath: filepath.Join(root, filepath.FromSlash(relPath)),
			Checksum:   download.Checksum{Kind: download.ChecksumSha1, Hex: entry.SHA1},
			Size:       entry.Size,
			Kind:       download.KindMojangJava,
		})
	}
	return tasks
}

// applyJavaPostInstall implements spec.md §4.6.3 step 5: create
// symlinks for Link entries, set 0o755 on executables (POSIX only).
func applyJavaPostInstall(entries map[string]JavaFileEntry, root string) error {
	for relPath, entry := range entries {
		target := filepath.Join(root, filepath.FromSlash(relPath))
		switch entry.Kind {
		case JavaFileDirectory:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return conicerr.IO(err)
			}
		case JavaFileLink:
			if runtime.GOOS == "windows" {
				continue
			}
			os.Remove(target)
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return conicerr.IO(err)
			}
			if err := os.Symlink(entry.LinkTarget, target); err != nil {
				return conicerr.IO(err)
			}
		case JavaFileRegular:
			if entry.Executable && runtime.GOOS != "windows" {
				if err := os.Chmod(target, 0o755); err != nil {
					return conicerr.IO(err)
				}
			}
		}
	}
	return nil
}
