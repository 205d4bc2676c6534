package platform

import "testing"

func TestDelimiter(t *testing.T) {
	cases := []struct {
		family OSFamily
		want   string
	}{
		{Windows, ";"},
		{Linux, ":"},
		{MacOS, ":"},
	}
	for _, c := range cases {
		info := Info{OSFamily: c.family}
		if got := info.Delimiter(); got != c.want {
			t.Errorf("Delimiter(%s) = %q, want %q", c.family, got, c.want)
		}
	}
}

func TestArchTag(t *testing.T) {
	cases := map[string]string{
		"amd64": "x64",
		"386":   "x86",
		"arm64": "aarch64",
		"arm":   "arm",
		"riscv": "riscv",
	}
	for goarch, want := range cases {
		if got := archTag(goarch); got != want {
			t.Errorf("archTag(%s) = %q, want %q", goarch, got, want)
		}
	}
}

func TestFamilyFromGOOS(t *testing.T) {
	cases := map[string]OSFamily{
		"windows": Windows,
		"darwin":  MacOS,
		"linux":   Linux,
		"freebsd": Linux,
	}
	for goos, want := range cases {
		if got := familyFromGOOS(goos); got != want {
			t.Errorf("familyFromGOOS(%s) = %s, want %s", goos, got, want)
		}
	}
}
