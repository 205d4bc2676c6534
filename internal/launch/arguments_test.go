package launch

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/conicapps/launcher-core/internal/account"
	"github.com/conicapps/launcher-core/internal/config"
	"github.com/conicapps/launcher-core/internal/layout"
	"github.com/conicapps/launcher-core/internal/version"
)

func TestSubstituteLeavesUnknownKeysUntouched(t *testing.T) {
	got := substitute("${known} and ${missing}", map[string]string{"known": "value"}, false)
	want := "value and ${missing}"
	if got != want {
		t.Fatalf("substitute() = %q, want %q", got, want)
	}
}

func TestSubstituteQuotesSpacesOnlyWhenRequested(t *testing.T) {
	args := map[string]string{"name": "Player One"}
	if got := substitute("${name}", args, true); got != `"Player One"` {
		t.Fatalf("quoted substitute = %q, want quoted", got)
	}
	if got := substitute("${name}", args, false); got != "Player One" {
		t.Fatalf("unquoted substitute = %q, want bare value", got)
	}
}

func newTestLayout(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	return l
}

func writeLibraryJar(t *testing.T, l *layout.Layout, relPath string, files map[string]string) {
	t.Helper()
	path := l.LibraryPath(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}

func TestResolveClasspathUnzipsNativesAndSkipsThemFromClasspath(t *testing.T) {
	l := newTestLayout(t)
	writeLibraryJar(t, l, "common/common-1.0.jar", map[string]string{"Common.class": "x"})
	writeLibraryJar(t, l, "natives/lwjgl-natives.jar", map[string]string{"liblwjgl.so": "binary"})

	rv := &version.ResolvedVersion{
		ID: "1.20.1",
		Libraries: []version.Library{
			{Kind: version.LibraryCommon, Path: "common/common-1.0.jar"},
			{Kind: version.LibraryNative, Path: "natives/lwjgl-natives.jar"},
		},
	}
	nativesRoot := l.NativesRoot(rv.ID)
	jarPath := l.VersionJar(rv.ID)

	cp, err := resolveClasspath(l, rv, jarPath, "", nativesRoot)
	if err != nil {
		t.Fatalf("resolveClasspath: %v", err)
	}

	if strings.Contains(cp, "lwjgl-natives") {
		t.Fatalf("classpath must not include native jars, got %q", cp)
	}
	if !strings.Contains(cp, "common-1.0.jar") {
		t.Fatalf("classpath missing common library, got %q", cp)
	}
	if !strings.HasSuffix(cp, jarPath) {
		t.Fatalf("classpath must end in the version jar, got %q", cp)
	}

	if _, err := os.Stat(filepath.Join(nativesRoot, "liblwjgl.so")); err != nil {
		t.Fatalf("expected native unzipped into %s: %v", nativesRoot, err)
	}
}

func TestBuildArgvOrdering(t *testing.T) {
	l := newTestLayout(t)
	rv := &version.ResolvedVersion{
		ID:            "1.20.1",
		MainClass:     "net.minecraft.client.main.Main",
		JVMArguments:  []string{"-Djava.library.path=${natives_directory}"},
		GameArguments: []string{"--username", "${auth_player_name}"},
	}

	opts := EffectiveOptions{
		Identity:   account.ResolvedIdentity{DisplayName: "Steve", UUID: "uuid-1", AccessToken: "token-1"},
		Properties: "{}",
	}
	opts.MinMemory = 512
	opts.MaxMemory = 2048
	opts.Width = 854
	opts.Height = 480
	opts.LauncherName = "Conic_Launcher"
	opts.GC = config.GCG1

	argv, err := buildArgv(l, rv, t.TempDir(), opts, "1.0.0", AccountRef{Kind: AccountOffline, ID: "uuid-1"})
	if err != nil {
		t.Fatalf("buildArgv: %v", err)
	}

	mainClassIdx := indexOf(argv, "net.minecraft.client.main.Main")
	if mainClassIdx == -1 {
		t.Fatalf("main class not found in argv: %v", argv)
	}
	memIdx := indexOf(argv, "-Xms512M")
	if memIdx == -1 || memIdx > mainClassIdx {
		t.Fatalf("memory flag must precede main class: %v", argv)
	}
	usernameIdx := indexOf(argv, "Steve")
	if usernameIdx == -1 || usernameIdx < mainClassIdx {
		t.Fatalf("game args must follow main class: %v", argv)
	}
	if !strings.HasSuffix(argv[0], "-Dminecraft.client.jar="+l.VersionJar(rv.ID)) {
		t.Fatalf("first argv entry should be -Dminecraft.client.jar, got %v", argv[0])
	}
	widthIdx := indexOf(argv, "--width")
	if widthIdx == -1 {
		t.Fatalf("expected --width/--height when not fullscreen: %v", argv)
	}
}

func TestBuildArgvFullscreenOmitsWidthHeight(t *testing.T) {
	l := newTestLayout(t)
	rv := &version.ResolvedVersion{ID: "1.20.1", MainClass: "Main"}
	opts := EffectiveOptions{Identity: account.ResolvedIdentity{}}
	opts.Fullscreen = true

	argv, err := buildArgv(l, rv, t.TempDir(), opts, "1.0.0", AccountRef{Kind: AccountOffline})
	if err != nil {
		t.Fatalf("buildArgv: %v", err)
	}
	if indexOf(argv, "--width") != -1 {
		t.Fatalf("fullscreen should omit --width: %v", argv)
	}
	if indexOf(argv, "--fullscreen") == -1 {
		t.Fatalf("expected --fullscreen: %v", argv)
	}
}

func TestBuildArgvServerFlags(t *testing.T) {
	l := newTestLayout(t)
	rv := &version.ResolvedVersion{ID: "1.20.1", MainClass: "Main"}
	opts := EffectiveOptions{Identity: account.ResolvedIdentity{}}
	opts.Server = &config.Server{IP: "mc.example.com", Port: 25565}

	argv, err := buildArgv(l, rv, t.TempDir(), opts, "1.0.0", AccountRef{Kind: AccountOffline})
	if err != nil {
		t.Fatalf("buildArgv: %v", err)
	}
	if indexOf(argv, "--server") == -1 {
		t.Fatalf("expected --server flag: %v", argv)
	}
}

func indexOf(argv []string, want string) int {
	for i, a := range argv {
		if a == want {
			return i
		}
	}
	return -1
}

func TestMarkerFreshnessTTL(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, ".conic-assets-ok")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if fresh(marker, func() time.Time { return base }) {
		t.Fatal("missing marker must be reported stale")
	}

	if err := writeMarker(marker, func() time.Time { return base }); err != nil {
		t.Fatalf("writeMarker: %v", err)
	}
	if !fresh(marker, func() time.Time { return base.Add(9 * 24 * time.Hour) }) {
		t.Fatal("marker under 10 days old should be fresh")
	}
	if fresh(marker, func() time.Time { return base.Add(11 * 24 * time.Hour) }) {
		t.Fatal("marker over 10 days old should be stale")
	}
}
