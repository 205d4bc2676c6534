package version

import (
	"fmt"
	"strings"

	"github.com/Jeffail/gabs"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/platform"
)

const defaultLibrariesRoot = "https://libraries.minecraft.net/"

// resolveLibrary implements spec.md §4.4.1 for a single raw library
// element. ok is false when the library's rules disallow it for the
// current platform/features (the caller should drop it, not error).
func resolveLibrary(raw *gabs.Container, features Features) (lib Library, ok bool, err error) {
	if raw.Exists("rules") {
		rules, rerr := parseRules(raw.Path("rules"))
		if rerr != nil {
			return Library{}, false, rerr
		}
		if !Allowed(rules, features) {
			return Library{}, false, nil
		}
	}

	name, _ := raw.Path("name").Data().(string)

	if raw.Exists("natives") && raw.Exists("downloads", "classifiers") {
		family := mojangOSName(platform.Current.OSFamily)
		classifierKey, _ := raw.Path("natives." + family).Data().(string)
		if classifierKey == "" {
			return Library{}, false, nil
		}
		classifierKey = strings.ReplaceAll(classifierKey, "${arch}", archBits())
		entry := raw.Path("downloads.classifiers." + classifierKey)
		if entry == nil || entry.Data() == nil {
			return Library{}, false, nil
		}
		return Library{
			Kind:     LibraryNative,
			Name:     name,
			URL:      stringField(entry, "url"),
			Path:     stringField(entry, "path"),
			SHA1:     stringField(entry, "sha1"),
			Size:     int64Field(entry, "size"),
			IsNative: true,
		}, true, nil
	}

	if raw.Exists("downloads", "artifact") {
		artifact := raw.Path("downloads.artifact")
		return Library{
			Kind: LibraryCommon,
			Name: name,
			URL:  stringField(artifact, "url"),
			Path: stringField(artifact, "path"),
			SHA1: stringField(artifact, "sha1"),
			Size: int64Field(artifact, "size"),
		}, true, nil
	}

	return modLoaderLibrary(name, stringField(raw, "url"))
}

// modLoaderLibrary handles the bare "group:artifact:version" coordinate
// form used by mod-loader library lists, per spec.md §4.4.1's third
// variant and the concrete scenario in §8.2.
func modLoaderLibrary(name, urlBase string) (Library, bool, error) {
	segments := strings.Split(name, ":")
	if len(segments) != 3 {
		return Library{}, false, conicerr.InvalidVersionJSON("library name (expected group:artifact:version)")
	}
	group, artifact, ver := segments[0], segments[1], segments[2]
	relPath := fmt.Sprintf("%s/%s/%s/%s-%s.jar", strings.ReplaceAll(group, ".", "/"), artifact, ver, artifact, ver)
	if urlBase == "" {
		urlBase = defaultLibrariesRoot
	}
	if !strings.HasSuffix(urlBase, "/") {
		urlBase += "/"
	}
	return Library{
		Kind: LibraryModLoader,
		Name: name,
		URL:  urlBase + relPath,
		Path: relPath,
	}, true, nil
}

func archBits() string {
	if platform.Current.Arch == "x86" {
		return "32"
	}
	return "64"
}

func stringField(c *gabs.Container, path string) string {
	v, _ := c.Path(path).Data().(string)
	return v
}

func int64Field(c *gabs.Container, path string) int64 {
	switch v := c.Path(path).Data().(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
