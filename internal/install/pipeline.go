package install

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/download"
	"github.com/conicapps/launcher-core/internal/progress"
	"github.com/conicapps/launcher-core/internal/version"
)

// defaultJavaComponent is used when a version descriptor's javaVersion
// is absent or the caller otherwise has no opinion.
const defaultJavaComponent = "jre-legacy"

// Install runs the full spec.md §4.6.5 orchestration for req: single-flight
// guarded, cancellable via ctx, emitting progress through prog (nil is
// accepted — an internal no-op progress is substituted). On success it
// writes the instance's .install.lock; any failure leaves it absent so a
// retry is always considered "not yet installed".
func (p *Pipeline) Install(ctx context.Context, req Request, prog *progress.Progress) (err error) {
	select {
	case p.sem <- struct{}{}:
	default:
		return conicerr.AlreadyInstalling()
	}
	defer func() { <-p.sem }()

	if prog == nil {
		prog = progress.New(0)
	}

	if err := checkCancelled(ctx); err != nil {
		return err
	}

	prog.SetStep(progress.StepVerifyExistingFiles)
	rv, tasks, err := p.InstallVanilla(req.MinecraftVer)
	if err != nil {
		return err
	}

	if err := checkCancelled(ctx); err != nil {
		return err
	}

	prog.SetTotal(totalTaskBytes(tasks))
	prog.SetStep(progress.StepDownloadFiles)
	if err := p.deps.Download.DownloadConcurrent(tasks, prog, p.deps.Config); err != nil {
		return err
	}
	stamp := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	if err := os.WriteFile(p.deps.Layout.LibrariesOKMarker(req.InstanceUUID), stamp, 0o644); err != nil {
		return conicerr.IO(err)
	}
	if err := os.WriteFile(p.deps.Layout.AssetsOKMarker(req.InstanceUUID), stamp, 0o644); err != nil {
		return conicerr.IO(err)
	}

	if err := checkCancelled(ctx); err != nil {
		return err
	}

	prog.SetStep(progress.StepInstallJava)
	component := rv.JavaVersion.Component
	if component == "" {
		component = defaultJavaComponent
	}
	if err := p.InstallJavaRuntime(component, prog); err != nil {
		return err
	}

	if err := checkCancelled(ctx); err != nil {
		return err
	}

	if req.Loader != LoaderNone {
		prog.SetStep(progress.StepRunInstaller)
		if err := p.installLoader(req, rv); err != nil {
			return err
		}
	}

	if err := checkCancelled(ctx); err != nil {
		return err
	}

	if err := os.MkdirAll(p.deps.Layout.InstanceDir(req.InstanceUUID), 0o755); err != nil {
		return conicerr.IO(err)
	}
	if err := os.WriteFile(p.deps.Layout.InstallLock(req.InstanceUUID), []byte("ok"), 0o644); err != nil {
		return conicerr.IO(err)
	}
	prog.SetStep(progress.StepComplete)
	return nil
}

func (p *Pipeline) installLoader(req Request, rv *version.ResolvedVersion) error {
	if req.JavaExecutable == "" {
		return conicerr.InstanceBroken("mod-loader install requires a resolved Java executable")
	}
	switch req.Loader {
	case LoaderFabric:
		_, err := p.InstallFabric(req.MinecraftVer, req.LoaderVersion)
		return err
	case LoaderQuilt:
		_, err := p.InstallQuilt(req.MinecraftVer, req.LoaderVersion)
		return err
	case LoaderForge:
		return p.InstallForge(req.MinecraftVer, req.LoaderVersion, req.JavaExecutable, p.legacyLibraryRefs(rv))
	case LoaderNeoForged:
		return p.InstallNeoForged(req.LoaderVersion, req.JavaExecutable)
	default:
		return nil
	}
}

func (p *Pipeline) legacyLibraryRefs(rv *version.ResolvedVersion) []legacyLibraryRef {
	refs := make([]legacyLibraryRef, 0, len(rv.Libraries))
	for _, lib := range rv.Libraries {
		if lib.Path == "" || lib.URL == "" {
			continue
		}
		refs = append(refs, legacyLibraryRef{
			URL:        lib.URL,
			TargetPath: p.deps.Layout.LibraryPath(lib.Path),
		})
	}
	return refs
}

func checkCancelled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return conicerr.Aborted()
	default:
		return nil
	}
}

func totalTaskBytes(tasks []download.Task) uint64 {
	var total uint64
	for _, t := range tasks {
		if t.Size > 0 {
			total += uint64(t.Size)
		}
	}
	return total
}
