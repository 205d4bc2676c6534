//go:build darwin

package platform

import (
	"os/exec"
)

func darwinVersion() string {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return "unknown"
	}
	return trimmed(string(out))
}

func linuxVersion() string   { return "" }
func windowsVersion() string { return "" }
func windowsEdition() string { return "" }
