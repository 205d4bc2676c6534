//go:build windows

package platform

import (
	"os"
)

// windowsVersion and windowsEdition read from the environment the way the
// teacher's env.go reads APPDATA directly rather than shelling out; a full
// registry read is unnecessary for the launcher's purposes (rule matching
// only needs a coarse version string).
func windowsVersion() string {
	if v := os.Getenv("CONIC_WINVER"); v != "" {
		return v
	}
	return "10.0"
}

func windowsEdition() string {
	return os.Getenv("CONIC_WINEDITION")
}

func linuxVersion() string { return "" }
func darwinVersion() string { return "" }
