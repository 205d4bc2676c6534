package install

import (
	"fmt"
	"io"
	"os"

	"github.com/Jeffail/gabs"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/download"
	"github.com/conicapps/launcher-core/internal/version"
)

const globalVersionManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// log4j2Resource is the bundled logging config written alongside every
// installed version, per spec.md §4.6.1 step 5. Mojang ships a
// per-version log4j2.xml; the launcher bundles one default since the
// exact upstream resource is outside this module's scope.
const log4j2Resource = `<?xml version="1.0" encoding="UTF-8"?>
<Configuration>
  <Appenders>
    <Console name="SysOut" target="SYSTEM_OUT">
      <PatternLayout pattern="[%d{HH:mm:ss}] [%t/%level]: %msg{nolookups}%n"/>
    </Console>
  </Appenders>
  <Loggers>
    <Root level="info">
      <AppenderRef ref="SysOut"/>
    </Root>
  </Loggers>
</Configuration>
`

// InstallVanilla implements spec.md §4.6.1: fetch the global manifest,
// resolve the target version's descriptor, persist it, and build the
// full vanilla download task list (client jar, libraries, assets).
func (p *Pipeline) InstallVanilla(mcVersion string) (*version.ResolvedVersion, []download.Task, error) {
	manifestResp, err := p.deps.HTTP.Get(globalVersionManifestURL)
	if err != nil {
		return nil, nil, conicerr.Network(err)
	}
	defer manifestResp.Body.Close()

	manifest, err := gabs.ParseJSONBuffer(manifestResp.Body)
	if err != nil {
		return nil, nil, conicerr.JSONParse(err)
	}

	versionURL, err := findVersionURL(manifest, mcVersion)
	if err != nil {
		return nil, nil, err
	}

	versionResp, err := p.deps.HTTP.Get(versionURL)
	if err != nil {
		return nil, nil, conicerr.Network(err)
	}
	defer versionResp.Body.Close()

	raw, err := io.ReadAll(versionResp.Body)
	if err != nil {
		return nil, nil, conicerr.IO(err)
	}

	rv, err := version.Resolve(raw, p.deps.Layout.VersionsDir(), nil)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(p.deps.Layout.VersionDir(rv.ID), 0o755); err != nil {
		return nil, nil, conicerr.IO(err)
	}
	if err := os.WriteFile(p.deps.Layout.VersionJSON(rv.ID), raw, 0o644); err != nil {
		return nil, nil, conicerr.IO(err)
	}
	if err := os.WriteFile(p.deps.Layout.LogConfigPath(rv.ID), []byte(log4j2Resource), 0o644); err != nil {
		return nil, nil, conicerr.IO(err)
	}

	tasks, err := p.vanillaTasks(rv)
	if err != nil {
		return nil, nil, err
	}
	return rv, tasks, nil
}

func findVersionURL(manifest *gabs.Container, id string) (string, error) {
	entries, err := manifest.Path("versions").Children()
	if err != nil {
		return "", conicerr.InvalidVersionJSON("versions")
	}
	for _, e := range entries {
		if entryID, _ := e.Path("id").Data().(string); entryID == id {
			url, _ := e.Path("url").Data().(string)
			return url, nil
		}
	}
	return "", conicerr.VersionMetadataNotFound(id)
}

func (p *Pipeline) vanillaTasks(rv *version.ResolvedVersion) ([]download.Task, error) {
	var tasks []download.Task

	if client, ok := rv.Downloads["client"]; ok {
		tasks = append(tasks, download.Task{
			URL:        client.URL,
			TargetPath: p.deps.Layout.VersionJar(rv.ID),
			Checksum:   download.Checksum{Kind: download.ChecksumSha1, Hex: client.SHA1},
			Size:       client.Size,
			Kind:       download.KindVersionInfo,
		})
	}

	tasks = append(tasks, p.LibraryTasks(rv)...)

	assetTasks, err := p.AssetTasks(rv)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, assetTasks...)
	return tasks, nil
}

// LibraryTasks builds the library download task list alone, reused by
// internal/launch's completeness check (spec.md §4.8 step 3) so it
// doesn't need its own copy of this resolution logic.
func (p *Pipeline) LibraryTasks(rv *version.ResolvedVersion) []download.Task {
	var tasks []download.Task
	for _, lib := range rv.Libraries {
		if lib.Path == "" || lib.URL == "" {
			continue
		}
		tasks = append(tasks, download.Task{
			URL:        lib.URL,
			TargetPath: p.deps.Layout.LibraryPath(lib.Path),
			Checksum:   download.Checksum{Kind: download.ChecksumSha1, Hex: lib.SHA1},
			Size:       lib.Size,
			Kind:       download.KindLibraries,
		})
	}
	return tasks
}

// AssetTasks implements spec.md §4.6.1 step 4's asset fan-out: fetch
// the asset index, emit one task per object plus one to persist the
// index itself. Exported so internal/launch's completeness check
// (spec.md §4.8 step 3) can rebuild the same list without re-running
// InstallVanilla.
func (p *Pipeline) AssetTasks(rv *version.ResolvedVersion) ([]download.Task, error) {
	if rv.AssetIndex.URL == "" {
		return nil, nil
	}
	resp, err := p.deps.HTTP.Get(rv.AssetIndex.URL)
	if err != nil {
		return nil, conicerr.Network(err)
	}
	defer resp.Body.Close()

	index, err := gabs.ParseJSONBuffer(resp.Body)
	if err != nil {
		return nil, conicerr.JSONParse(err)
	}

	objects, err := index.Path("objects").ChildrenMap()
	if err != nil {
		return nil, conicerr.InvalidVersionJSON("objects")
	}

	tasks := make([]download.Task, 0, len(objects)+1)
	for _, obj := range objects {
		hash, _ := obj.Path("hash").Data().(string)
		if hash == "" || len(hash) < 2 {
			continue
		}
		size := int64(0)
		if v, ok := obj.Path("size").Data().(float64); ok {
			size = int64(v)
		}
		tasks = append(tasks, download.Task{
			URL:        fmt.Sprintf("https://resources.download.minecraft.net/%s/%s", hash[:2], hash),
			TargetPath: p.deps.Layout.AssetObjectPath(hash),
			Checksum:   download.Checksum{Kind: download.ChecksumSha1, Hex: hash},
			Size:       size,
			Kind:       download.KindAssets,
		})
	}

	indexPath := p.deps.Layout.AssetIndexPath(rv.AssetIndex.ID)
	tasks = append(tasks, download.Task{
		URL:        rv.AssetIndex.URL,
		TargetPath: indexPath,
		Checksum:   download.Checksum{Kind: download.ChecksumSha1, Hex: rv.AssetIndex.SHA1},
		Size:       rv.AssetIndex.Size,
		Kind:       download.KindAssets,
	})
	return tasks, nil
}
