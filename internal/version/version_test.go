package version

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/platform"
)

func TestRuleEvaluationScenario(t *testing.T) {
	rules := []Rule{
		{Action: ActionAllow},
		{Action: ActionDisallow, OS: &OSPredicate{Name: "linux"}},
	}
	// Scenario from spec.md §8.1: these only differ per-platform, so we
	// assert against the family this test actually runs on.
	got := Allowed(rules, nil)
	wantAllow := platform.Current.OSFamily != platform.Linux
	if got != wantAllow {
		t.Errorf("Allowed() = %v, want %v", got, wantAllow)
	}
}

func TestModLoaderLibraryPath(t *testing.T) {
	lib, ok, err := modLoaderLibrary("net.fabricmc:tiny-mappings-parser:0.3.0+build.17", "https://maven.fabricmc.net/")
	if err != nil || !ok {
		t.Fatalf("modLoaderLibrary: ok=%v err=%v", ok, err)
	}
	wantPath := "net/fabricmc/tiny-mappings-parser/0.3.0+build.17/tiny-mappings-parser-0.3.0+build.17.jar"
	if lib.Path != wantPath {
		t.Errorf("Path = %q, want %q", lib.Path, wantPath)
	}
	wantURL := "https://maven.fabricmc.net/" + wantPath
	if lib.URL != wantURL {
		t.Errorf("URL = %q, want %q", lib.URL, wantURL)
	}
}

func TestModLoaderLibraryRejectsMalformedName(t *testing.T) {
	_, _, err := modLoaderLibrary("not-a-coordinate", "")
	if !conicerr.As(err, conicerr.KindInvalidVersionJSON) {
		t.Errorf("expected InvalidVersionJson error, got %v", err)
	}
}

func TestResolveMergesInheritanceChainLegacyDefaults(t *testing.T) {
	dir := t.TempDir()
	parentID := "1.20"
	writeVersionJSON(t, dir, parentID, `{
		"id": "1.20",
		"mainClass": "net.minecraft.client.main.Main",
		"minimumLauncherVersion": 1,
		"assetIndex": {"id": "5", "url": "https://example.com/5.json", "sha1": "abc", "size": 1, "totalSize": 2},
		"downloads": {"client": {"url": "https://example.com/client.jar", "sha1": "def", "size": 10}},
		"libraries": [
			{"name": "com.mojang:brigadier:1.0.18", "downloads": {"artifact": {"url": "https://libraries.minecraft.net/com/mojang/brigadier/1.0.18/brigadier-1.0.18.jar", "path": "com/mojang/brigadier/1.0.18/brigadier-1.0.18.jar", "sha1": "xyz", "size": 5}}}
		]
	}`)

	child := `{
		"id": "fabric-loader-1.20",
		"inheritsFrom": "1.20",
		"mainClass": "net.fabricmc.loader.impl.launch.knot.KnotClient",
		"libraries": [
			{"name": "net.fabricmc:fabric-loader:0.15.0", "url": "https://maven.fabricmc.net/"}
		]
	}`

	rv, err := Resolve([]byte(child), dir, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rv.ID != "fabric-loader-1.20" {
		t.Errorf("ID = %q, want fabric-loader-1.20", rv.ID)
	}
	if len(rv.Inheritances) != 1 || rv.Inheritances[0] != "1.20" {
		t.Errorf("Inheritances = %v, want [1.20]", rv.Inheritances)
	}
	if len(rv.Libraries) != 2 {
		t.Fatalf("Libraries = %d, want 2", len(rv.Libraries))
	}
	if rv.Libraries[0].Name != "com.mojang:brigadier:1.0.18" {
		t.Errorf("expected parent library first, got %s", rv.Libraries[0].Name)
	}
	if _, ok := rv.Downloads["client"]; !ok {
		t.Errorf("expected client download to survive inheritance")
	}
	// minimumLauncherVersion stayed 1 (child never set it) => legacy defaults apply.
	if len(rv.GameArguments) != len(legacyGameArguments) {
		t.Errorf("expected legacy game arguments, got %v", rv.GameArguments)
	}
}

func TestResolveMissingParentFails(t *testing.T) {
	dir := t.TempDir()
	child := `{"id": "x", "inheritsFrom": "missing"}`
	_, err := Resolve([]byte(child), dir, nil)
	if !conicerr.As(err, conicerr.KindVersionMetadataNotFound) {
		t.Errorf("expected VersionMetadataNotfound, got %v", err)
	}
}

func writeVersionJSON(t *testing.T, dir, id, content string) {
	t.Helper()
	versionDir := filepath.Join(dir, id)
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(versionDir, id+".json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
