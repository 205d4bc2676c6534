package launch

import (
	"fmt"
	"os"
	"strings"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/layout"
	"github.com/conicapps/launcher-core/internal/platform"
)

// materializeScript implements spec.md §4.8 step 6: write the
// per-instance launch script containing cd, the before-hook, an
// optional wrap command prefix, the java invocation, a
// natives-directory cleanup line, and the after-hook. Chmod +x on
// POSIX, mirroring the original source's spawn_minecraft_process.
func materializeScript(l *layout.Layout, uuid, nativesRoot, javaExecutable string, argv []string, opts EffectiveOptions) (string, error) {
	instanceRoot := l.InstanceDir(uuid)

	commentPrefix := "#"
	var b strings.Builder
	if platform.Current.OSFamily == platform.Windows {
		commentPrefix = "::"
	} else {
		b.WriteString("#!/bin/bash\n\n")
	}
	fmt.Fprintf(&b, "%s This file is automatically generated by Conic Launcher.\n", commentPrefix)
	fmt.Fprintf(&b, "%s NOTE: Don't use this file to launch game.\n\n", commentPrefix)
	fmt.Fprintf(&b, "cd %q\n", instanceRoot)
	if strings.TrimSpace(opts.ExecuteBeforeLaunch) != "" {
		fmt.Fprintf(&b, "%s\n", opts.ExecuteBeforeLaunch)
	}

	if strings.TrimSpace(opts.WrapCommand) != "" {
		fmt.Fprintf(&b, "%s ", opts.WrapCommand)
	}
	b.WriteString(javaExecutable)
	for _, arg := range argv {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	b.WriteByte('\n')

	if platform.Current.OSFamily == platform.Windows {
		fmt.Fprintf(&b, "del /F /Q %q\n", nativesRoot)
	} else {
		fmt.Fprintf(&b, "rm -rf %q\n", nativesRoot)
	}
	if strings.TrimSpace(opts.ExecuteAfterLaunch) != "" {
		fmt.Fprintf(&b, "%s\n", opts.ExecuteAfterLaunch)
	}

	scriptPath := l.LaunchScript(uuid)
	if err := os.MkdirAll(l.InstanceCacheDir(uuid), 0o755); err != nil {
		return "", conicerr.IO(err)
	}
	if err := os.WriteFile(scriptPath, []byte(b.String()), 0o644); err != nil {
		return "", conicerr.IO(err)
	}
	if platform.Current.OSFamily != platform.Windows {
		if err := os.Chmod(scriptPath, 0o755); err != nil {
			return "", conicerr.IO(err)
		}
	}
	return scriptPath, nil
}
