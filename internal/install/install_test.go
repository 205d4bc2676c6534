package install

import (
	"testing"

	"github.com/conicapps/launcher-core/internal/platform"
)

func TestJavaManifestKey(t *testing.T) {
	cases := []struct {
		name string
		in   platform.Info
		want string
	}{
		{"linux-x64", platform.Info{OSFamily: platform.Linux, Arch: "x64"}, "linux"},
		{"linux-arm64", platform.Info{OSFamily: platform.Linux, Arch: "aarch64"}, "linux-arm64"},
		{"mac-x64", platform.Info{OSFamily: platform.MacOS, Arch: "x64"}, "mac-os"},
		{"mac-arm64", platform.Info{OSFamily: platform.MacOS, Arch: "aarch64"}, "mac-os-arm64"},
		{"windows-x64", platform.Info{OSFamily: platform.Windows, Arch: "x64"}, "windows-x64"},
		{"windows-x86", platform.Info{OSFamily: platform.Windows, Arch: "x86"}, "windows-x86"},
		{"windows-arm64", platform.Info{OSFamily: platform.Windows, Arch: "aarch64"}, "windows-arm64"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := javaManifestKey(c.in); got != c.want {
				t.Fatalf("javaManifestKey(%+v) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestForgeMajorVersion(t *testing.T) {
	major, err := forgeMajorVersion("47.2.20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != 47 {
		t.Fatalf("major = %d, want 47", major)
	}

	if _, err := forgeMajorVersion("notaversion"); err == nil {
		t.Fatal("expected error for malformed forge version")
	}
}

func TestForgeSucceeded(t *testing.T) {
	if !forgeSucceeded("doing stuff\nmore stuff\ntrue\n") {
		t.Fatal("expected success when last line is literal true")
	}
	if forgeSucceeded("doing stuff\nfalse\n") {
		t.Fatal("expected failure when last line is not true")
	}
	if forgeSucceeded("") {
		t.Fatal("expected failure on empty output")
	}
}

func TestNeoforgedMcSegments(t *testing.T) {
	major, minor, err := neoforgedMcSegments("1.20.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != 20 || minor != 1 {
		t.Fatalf("got (%d, %d), want (20, 1)", major, minor)
	}

	major, minor, err = neoforgedMcSegments("1.21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != 21 || minor != 0 {
		t.Fatalf("got (%d, %d), want (21, 0)", major, minor)
	}

	if _, _, err := neoforgedMcSegments("1"); err == nil {
		t.Fatal("expected error for a version with no minor segment")
	}
}

func TestParseNeoForgedVersionList(t *testing.T) {
	raw := []byte(`{"isSnapshot":false,"versions":["20.1.0","20.1.58","21.0.0"]}`)
	versions, err := parseNeoForgedVersionList(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(versions) != 3 || versions[1] != "20.1.58" {
		t.Fatalf("unexpected versions: %v", versions)
	}
}
