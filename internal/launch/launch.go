package launch

import (
	"bufio"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/install"
	"github.com/conicapps/launcher-core/internal/platform"
	"github.com/conicapps/launcher-core/internal/progress"
	"github.com/conicapps/launcher-core/internal/version"
)

// Event is one line forwarded from the launched process, or the
// synthetic success signal spec.md §4.8 step 7 names.
type Event struct {
	Line    string
	Success bool // true exactly once, on an extra event (empty Line) sent right after the first line containing "lwjgl version"
}

// Orchestrator runs Launch() calls, enforcing the single-flight rule
// spec.md §4.8 states ("exactly one launch active at a time, same lock
// discipline as install"), mirroring install.Pipeline's sem field.
type Orchestrator struct {
	deps *Deps
	sem  chan struct{}
}

// NewOrchestrator builds an Orchestrator around deps.
func NewOrchestrator(deps *Deps) *Orchestrator {
	return &Orchestrator{deps: deps, sem: make(chan struct{}, 1)}
}

// Launch runs spec.md §4.8's full orchestration for req, streaming
// every child-process stdout line (plus the synthetic success event)
// to onEvent. prog is forwarded to the completeness check's download
// calls; nil is accepted.
func (o *Orchestrator) Launch(req Request, prog *progress.Progress, onEvent func(Event)) error {
	select {
	case o.sem <- struct{}{}:
	default:
		return conicerr.AlreadyInLaunching()
	}
	defer func() { <-o.sem }()

	if prog == nil {
		prog = progress.New(0)
	}

	merged := req.Config.Launch.Override(req.Instance.LaunchConfig)

	identity, err := resolveAccount(o.deps.Accounts, req.Account, merged.SkipRefreshAccount)
	if err != nil {
		return err
	}
	opts := EffectiveOptions{LaunchConfig: merged, Identity: identity, Properties: "{}"}

	versionID := req.Instance.Runtime.VersionID()
	raw, err := os.ReadFile(o.deps.Layout.VersionJSON(versionID))
	if err != nil {
		return conicerr.VersionMetadataNotFound(versionID)
	}
	rv, err := version.Resolve(raw, o.deps.Layout.VersionsDir(), req.Features)
	if err != nil {
		return err
	}

	if !opts.SkipCheckFiles {
		if err := o.deps.ensureComplete(req.InstanceUUID, rv, prog, time.Now); err != nil {
			return err
		}
	}

	instanceRoot := o.deps.Layout.InstanceDir(req.InstanceUUID)
	argv, err := buildArgv(o.deps.Layout, rv, instanceRoot, opts, o.deps.AppVersion, req.Account)
	if err != nil {
		return err
	}

	javaExecutable := o.deps.Installer.JavaExecutablePath(install.JavaComponentFor(rv))
	nativesRoot := o.deps.Layout.NativesRoot(rv.ID)
	scriptPath, err := materializeScript(o.deps.Layout, req.InstanceUUID, nativesRoot, javaExecutable, argv, opts)
	if err != nil {
		return err
	}

	return runScript(scriptPath, onEvent)
}

// runScript spawns scriptPath, scraping its piped stdout for the
// case-insensitive "lwjgl version" substring per spec.md §4.8 step 7,
// mirroring the teacher's fabric.go/forge.go exec.Command idiom
// generalised from CombinedOutput (wait-then-inspect) to a streaming
// bufio.Scanner over a long-running child.
func runScript(scriptPath string, onEvent func(Event)) error {
	var cmd *exec.Cmd
	if platform.Current.OSFamily == platform.Windows {
		cmd = exec.Command("cmd", "/C", scriptPath)
	} else {
		cmd = exec.Command("/bin/bash", scriptPath)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return conicerr.IO(err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return conicerr.IO(err)
	}

	seenSuccess := false
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if onEvent != nil {
			onEvent(Event{Line: line})
		}
		if !seenSuccess && strings.Contains(strings.ToLower(line), "lwjgl version") {
			seenSuccess = true
			if onEvent != nil {
				onEvent(Event{Success: true})
			}
		}
	}

	waitErr := cmd.Wait()
	// Exit code is surfaced to the caller via waitErr; a non-zero exit
	// leaves the completeness markers as they are.
	if waitErr != nil {
		return conicerr.IO(waitErr)
	}
	return nil
}
