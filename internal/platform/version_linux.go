//go:build linux

package platform

import (
	"bufio"
	"os"
	"strings"
)

func linuxVersion() string {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return "unknown"
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "VERSION_ID=") {
			return trimmed(strings.Trim(strings.TrimPrefix(line, "VERSION_ID="), `"`))
		}
	}
	return "unknown"
}

func windowsVersion() string { return "" }
func darwinVersion() string  { return "" }
func windowsEdition() string { return "" }
