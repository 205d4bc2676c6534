package version

import (
	"os"
	"path/filepath"

	"github.com/Jeffail/gabs"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

// descriptor is one level of the inheritance chain, parsed but not yet
// merged into the accumulated ResolvedVersion.
type descriptor struct {
	id  string
	raw *gabs.Container
}

// Resolve implements spec.md §4.4: walk raw's inheritance chain on
// disk under versionsDir, merge root-first with child overriding
// parent, and validate the result's invariants.
func Resolve(raw []byte, versionsDir string, features Features) (*ResolvedVersion, error) {
	top, err := gabs.ParseJSON(raw)
	if err != nil {
		return nil, conicerr.JSONParse(err)
	}

	chain, err := loadChain(top, versionsDir)
	if err != nil {
		return nil, err
	}

	rv := &ResolvedVersion{
		Downloads:   map[string]Download{},
		JavaVersion: JavaVersion{Component: "jre-legacy", Major: 8},
	}

	for i := len(chain) - 1; i >= 0; i-- {
		if err := mergeDescriptor(rv, chain[i], features); err != nil {
			return nil, err
		}
	}

	for i := 1; i < len(chain); i++ {
		rv.Inheritances = append(rv.Inheritances, chain[i].id)
	}

	if rv.MinimumLauncherVersion < legacyLauncherVersionCeiling {
		rv.GameArguments = append([]string(nil), legacyGameArguments...)
		rv.JVMArguments = append([]string(nil), legacyJVMArguments...)
	}

	rv.Libraries = dedupeLibraries(rv.Libraries)

	if err := validate(rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// loadChain pushes top then walks inheritsFrom parents, returning the
// chain ordered child-first (index 0 is the user-supplied descriptor,
// last is the root ancestor) as spec.md §4.4 step 1 describes.
func loadChain(top *gabs.Container, versionsDir string) ([]descriptor, error) {
	chain := []descriptor{{id: stringField(top, "id"), raw: top}}
	cur := top
	for {
		parentID := stringField(cur, "inheritsFrom")
		if parentID == "" {
			break
		}
		path := filepath.Join(versionsDir, parentID, parentID+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, conicerr.VersionMetadataNotFound(parentID)
		}
		parent, err := gabs.ParseJSON(data)
		if err != nil {
			return nil, conicerr.JSONParse(err)
		}
		chain = append(chain, descriptor{id: parentID, raw: parent})
		cur = parent
	}
	return chain, nil
}

// mergeDescriptor merges one chain level into rv, child overrides
// parent per the field-by-field rules in spec.md §4.4 step 3.
func mergeDescriptor(rv *ResolvedVersion, d descriptor, features Features) error {
	raw := d.raw

	if id := stringField(raw, "id"); id != "" {
		rv.ID = id
	}
	if v := stringField(raw, "releaseTime"); v != "" {
		rv.ReleaseTime = v
	}
	if v := stringField(raw, "time"); v != "" {
		rv.Time = v
	}
	if v := stringField(raw, "type"); v != "" {
		rv.Type = v
	}
	if v := stringField(raw, "mainClass"); v != "" {
		rv.MainClass = v
	}
	if v := stringField(raw, "assets"); v != "" {
		rv.Assets = v
	}

	if raw.Exists("javaVersion") {
		jv := raw.Path("javaVersion")
		rv.JavaVersion = JavaVersion{
			Component: stringField(jv, "component"),
			Major:     int(int64Field(jv, "majorVersion")),
		}
	}

	if mlv := int64Field(raw, "minimumLauncherVersion"); int(mlv) > rv.MinimumLauncherVersion {
		rv.MinimumLauncherVersion = int(mlv)
	}

	if raw.Exists("assetIndex") {
		ai := raw.Path("assetIndex")
		rv.AssetIndex = AssetIndex{
			ID:        stringField(ai, "id"),
			URL:       stringField(ai, "url"),
			SHA1:      stringField(ai, "sha1"),
			Size:      int64Field(ai, "size"),
			TotalSize: int64Field(ai, "totalSize"),
		}
	}

	if raw.Exists("logging", "client") {
		lc := raw.Path("logging.client")
		rv.Logging = LoggingConfig{
			Argument: stringField(lc, "argument"),
			FileID:   stringField(lc, "file.id"),
			FileURL:  stringField(lc, "file.url"),
			FileSHA1: stringField(lc, "file.sha1"),
			FileSize: int64Field(lc, "file.size"),
		}
	}

	if raw.Exists("downloads") {
		children, err := raw.Path("downloads").ChildrenMap()
		if err == nil {
			for name, entry := range children {
				rv.Downloads[name] = Download{
					URL:  stringField(entry, "url"),
					SHA1: stringField(entry, "sha1"),
					Size: int64Field(entry, "size"),
				}
			}
		}
	}

	if raw.Exists("libraries") {
		libChildren, err := raw.Path("libraries").Children()
		if err != nil {
			return conicerr.InvalidVersionJSON("libraries")
		}
		var resolved []Library
		for _, rawLib := range libChildren {
			lib, ok, err := resolveLibrary(rawLib, features)
			if err != nil {
				return err
			}
			if ok {
				resolved = append(resolved, lib)
			}
		}
		// Child libraries come after the parent's in the flattened
		// list (spec.md §4.4 step 3: "concat(root, child1, child2, …)").
		rv.Libraries = append(rv.Libraries, resolved...)
	}

	if raw.Exists("arguments", "jvm") {
		args, err := resolveArgumentList(raw.Path("arguments.jvm"), features)
		if err != nil {
			return err
		}
		rv.JVMArguments = append(rv.JVMArguments, args...)
	}
	if raw.Exists("arguments", "game") {
		args, err := resolveArgumentList(raw.Path("arguments.game"), features)
		if err != nil {
			return err
		}
		rv.GameArguments = append(rv.GameArguments, args...)
	}

	return nil
}

// dedupeLibraries removes duplicate library paths, keeping the first
// (i.e. root-most) occurrence, matching spec.md §3's "libraries
// deduped" invariant.
func dedupeLibraries(libs []Library) []Library {
	seen := make(map[string]bool, len(libs))
	out := make([]Library, 0, len(libs))
	for _, l := range libs {
		key := l.Path
		if key == "" {
			key = l.Name
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

func validate(rv *ResolvedVersion) error {
	if rv.ID == "" {
		return conicerr.InvalidVersionJSON("id")
	}
	if _, ok := rv.Downloads["client"]; !ok {
		return conicerr.InvalidVersionJSON("downloads.client")
	}
	if rv.AssetIndex.ID == "" {
		return conicerr.InvalidVersionJSON("assetIndex")
	}
	if len(rv.Libraries) == 0 {
		return conicerr.InvalidVersionJSON("libraries")
	}
	if len(rv.JVMArguments) == 0 {
		return conicerr.InvalidVersionJSON("jvmArguments")
	}
	if rv.JavaVersion.Component == "" {
		return conicerr.InvalidVersionJSON("javaVersion")
	}
	return nil
}
