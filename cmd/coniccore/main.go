// Command coniccore drives internal/install, internal/launch and
// internal/account from a terminal for manual testing, mirroring the
// teacher's cmd/mcdex/main.go command-table dispatch (gCommands, a
// name -> {Fn, Desc, ArgsCount} map walked by flag.Arg(0)) generalised
// from mod-pack management to install/launch/account operations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/conicapps/launcher-core/internal/account"
	"github.com/conicapps/launcher-core/internal/config"
	"github.com/conicapps/launcher-core/internal/download"
	"github.com/conicapps/launcher-core/internal/httpclient"
	"github.com/conicapps/launcher-core/internal/install"
	"github.com/conicapps/launcher-core/internal/instance"
	"github.com/conicapps/launcher-core/internal/launch"
	"github.com/conicapps/launcher-core/internal/layout"
	"github.com/conicapps/launcher-core/internal/logging"
	"github.com/conicapps/launcher-core/internal/progress"
)

// version is set via -ldflags at release build time; embedded in the
// launcher_version JVM arg template, per spec.md §4.8.1.
var version = "dev"

var argVerbose bool
var argDataDir string

type command struct {
	Fn        func(l *layout.Layout) error
	Desc      string
	ArgsCount int
	Args      string
}

var commands = map[string]command{
	"instance.list": {
		Fn:   cmdInstanceList,
		Desc: "List known instances and their install status",
	},
	"instance.create": {
		Fn:        cmdInstanceCreate,
		Desc:      "Create a new instance directory and instance.toml",
		ArgsCount: 2,
		Args:      "<name> <minecraft version>",
	},
	"instance.delete": {
		Fn:        cmdInstanceDelete,
		Desc:      "Delete an instance directory",
		ArgsCount: 1,
		Args:      "<uuid>",
	},
	"install": {
		Fn:        cmdInstall,
		Desc:      "Run the install pipeline for an instance",
		ArgsCount: 1,
		Args:      "<uuid>",
	},
	"launch": {
		Fn:        cmdLaunch,
		Desc:      "Launch an installed instance",
		ArgsCount: 1,
		Args:      "<uuid>",
	},
	"account.offline.create": {
		Fn:        cmdAccountOfflineCreate,
		Desc:      "Create a new offline account",
		ArgsCount: 1,
		Args:      "<display name>",
	},
	"account.list": {
		Fn:   cmdAccountList,
		Desc: "List offline accounts and how long ago each was created",
	},
}

func cmdInstanceList(l *layout.Layout) error {
	summaries, err := instance.List(l)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		logging.Default.Section("No instances found.\n")
		return nil
	}
	for _, s := range summaries {
		logging.Default.Section("%s  %-24s  %-10s  installed=%v\n", s.UUID, s.Config.Name, s.Config.Runtime.Minecraft, s.Installed)
	}
	return nil
}

func cmdInstanceCreate(l *layout.Layout) error {
	name := flag.Arg(1)
	mcVersion := flag.Arg(2)
	uuid := strconv.FormatInt(time.Now().UnixNano(), 36)
	if err := instance.Create(l, uuid, name, mcVersion); err != nil {
		return err
	}
	logging.Default.Section("Created instance %s (%s)\n", uuid, name)
	return nil
}

func cmdInstanceDelete(l *layout.Layout) error {
	return instance.Delete(l, flag.Arg(1))
}

func cmdInstall(l *layout.Layout) error {
	uuid := flag.Arg(1)
	summary, err := instance.Get(l, uuid)
	if err != nil {
		return err
	}

	http := httpclient.New(httpclient.Options{})
	engine := download.New(http)
	pipeline := install.New(install.Deps{Layout: l, HTTP: http, Download: engine, Config: download.DefaultConfig()})

	prog := progress.New(0)
	sampler := progress.NewSampler(prog, nil)
	sampler.Start()
	defer sampler.Stop()

	done := make(chan struct{})
	go reportProgress(prog, done)
	defer close(done)

	rt := summary.Config.Runtime
	req := install.Request{InstanceUUID: uuid, MinecraftVer: rt.Minecraft}
	if rt.ModLoaderType != nil {
		req.Loader = loaderFor(*rt.ModLoaderType)
		if rt.ModLoaderVersion != nil {
			req.LoaderVersion = *rt.ModLoaderVersion
		}
		// Most mod-loader installers target the same jre-legacy
		// component vanilla pre-1.17 versions use; Pipeline.Install
		// resolves the version-specific component for the vanilla/
		// Java-runtime steps on its own, this is only what the
		// loader installer subprocess itself runs under.
		req.JavaExecutable = pipeline.JavaExecutablePath("jre-legacy")
	}

	if err := pipeline.Install(context.Background(), req, prog); err != nil {
		return err
	}
	logging.Default.Section("Installed %s\n", uuid)
	return nil
}

func loaderFor(t config.ModLoaderType) install.Loader {
	switch t {
	case config.ModLoaderFabric:
		return install.LoaderFabric
	case config.ModLoaderQuilt:
		return install.LoaderQuilt
	case config.ModLoaderForge:
		return install.LoaderForge
	case config.ModLoaderNeoforged:
		return install.LoaderNeoForged
	default:
		return install.LoaderNone
	}
}

func reportProgress(prog *progress.Progress, done <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := prog.Snapshot()
			logging.Default.Action("[%s] %s (%s)", snap.Step, snap.ExactCounts(language.English), snap.HumanSpeed())
		}
	}
}

func cmdLaunch(l *layout.Layout) error {
	uuid := flag.Arg(1)
	summary, err := instance.Get(l, uuid)
	if err != nil {
		return err
	}

	cfg, err := config.Load(l.ConfigTOML())
	if err != nil {
		return err
	}

	http := httpclient.New(httpclient.Options{})
	engine := download.New(http)
	pipeline := install.New(install.Deps{Layout: l, HTTP: http, Download: engine, Config: download.DefaultConfig()})
	offline := account.NewOfflineStore(l.OfflineAccountsJSON())

	deps := &launch.Deps{
		Layout:     l,
		HTTP:       http,
		Download:   engine,
		Installer:  pipeline,
		Accounts:   launch.Accounts{Offline: offline},
		AppVersion: version,
	}
	orch := launch.NewOrchestrator(deps)

	accounts, err := offline.List()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return fmt.Errorf("no offline accounts; run account.offline.create first")
	}
	ref := launch.AccountRef{Kind: launch.AccountOffline, ID: accounts[0].UUID}

	req := launch.Request{InstanceUUID: uuid, Account: ref, Config: cfg, Instance: summary.Config}
	return orch.Launch(req, nil, func(ev launch.Event) {
		if ev.Success {
			logging.Default.Section("launch_success\n")
			return
		}
		logging.Default.Verboseln(ev.Line)
	})
}

func cmdAccountOfflineCreate(l *layout.Layout) error {
	store := account.NewOfflineStore(l.OfflineAccountsJSON())
	acc, err := store.Create(flag.Arg(1), func() int64 { return time.Now().UnixNano() })
	if err != nil {
		return err
	}
	logging.Default.Section("Created offline account %s (%s)\n", acc.UUID, acc.DisplayName)
	return nil
}

func cmdAccountList(l *layout.Layout) error {
	store := account.NewOfflineStore(l.OfflineAccountsJSON())
	accounts, err := store.List()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		logging.Default.Section("%s  %-16s  created %s\n", a.UUID, a.DisplayName, account.FormatAge(a.CreatedAt))
	}
	return nil
}

func usage() {
	fmt.Println("usage: coniccore [-v] [-datadir <path>] <command> [args]")
	fmt.Println("commands:")
	keys := make([]string, 0, len(commands))
	for k := range commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, name := range keys {
		fmt.Printf("  - %s %s: %s\n", name, commands[name].Args, commands[name].Desc)
	}
}

func main() {
	flag.BoolVar(&argVerbose, "v", false, "Enable verbose logging of operations")
	flag.StringVar(&argDataDir, "datadir", "", "Launcher data directory (defaults to the platform-standard location)")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	commandName := flag.Arg(0)
	cmd, exists := commands[commandName]
	if !exists {
		fmt.Printf("ERROR: unknown command %q\n", commandName)
		usage()
		os.Exit(1)
	}
	if flag.NArg() < cmd.ArgsCount+1 {
		fmt.Printf("ERROR: insufficient arguments for %s\n", commandName)
		fmt.Printf("usage: coniccore %s %s\n", commandName, cmd.Args)
		os.Exit(1)
	}

	logging.Default.Verbose = argVerbose

	dataDir := argDataDir
	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err == nil {
			dataDir = abs
		}
	}
	l, err := layout.New(dataDir)
	if err != nil {
		log.Fatalf("failed to initialize data layout: %s\n", err)
	}

	if err := cmd.Fn(l); err != nil {
		log.Fatalf("%s\n", err)
	}
}
