// Package launch implements spec.md §4.8: account resolution, launch
// option merging, the completeness check, argv construction, launch
// script materialization and child-process supervision with stdout
// scraping for the "lwjgl version" success marker. Grounded on
// crates/launch/src/{options,complete,arguments,lib}.rs for step
// ordering and exact argument shape, and on the teacher's
// fabric.go/forge.go subprocess-spawn idiom (os/exec,
// cmd.CombinedOutput) generalized into a streaming bufio.Scanner over
// a piped long-running child per spec.md's live "launch_success"
// detection requirement.
package launch

import (
	"github.com/conicapps/launcher-core/internal/account"
	"github.com/conicapps/launcher-core/internal/config"
	"github.com/conicapps/launcher-core/internal/download"
	"github.com/conicapps/launcher-core/internal/httpclient"
	"github.com/conicapps/launcher-core/internal/install"
	"github.com/conicapps/launcher-core/internal/layout"
)

// AccountKind tags which store a Request's account reference resolves
// against.
type AccountKind string

const (
	AccountMicrosoft AccountKind = "microsoft"
	AccountOffline   AccountKind = "offline"
	AccountYggdrasil AccountKind = "yggdrasil"
)

// AccountRef selects one stored account, mirroring the original
// source's (current_account_uuid, current_account_type) pair.
type AccountRef struct {
	Kind AccountKind
	ID   string // the store's own key: profile uuid (Microsoft/offline) or StoreUUID (Yggdrasil)
}

// Accounts bundles the three stores §4.7 defines; Orchestrator
// dispatches account resolution through whichever AccountRef.Kind
// names.
type Accounts struct {
	Microsoft *account.MicrosoftStore
	Offline   *account.OfflineStore
	Yggdrasil *account.YggdrasilStore
}

// Deps bundles the shared collaborators a launch needs: the same
// Layout/HTTP/Download the installer uses, the account stores, and an
// install.Pipeline reused purely for its library/asset task-list
// builders (so the completeness check doesn't duplicate version-JSON
// navigation logic).
type Deps struct {
	Layout     *layout.Layout
	HTTP       *httpclient.Client
	Download   *download.Engine
	Installer  *install.Pipeline
	Accounts   Accounts
	AppVersion string // embedded in the launcher_version JVM arg template
}

// Request describes one Launch() call.
type Request struct {
	InstanceUUID string
	Account      AccountRef
	Config       config.Config
	Instance     config.InstanceConfig
	Features     map[string]bool // forwarded to version.Resolve's rule evaluation
}

// EffectiveOptions is the fully merged launch configuration for one
// request: global config.LaunchConfig overridden by the instance's
// InstanceLaunchOverrides, mirroring crates/launch/src/options.rs's
// LaunchOptions::new.
type EffectiveOptions struct {
	config.LaunchConfig
	Identity   account.ResolvedIdentity
	Properties string // "{}" per spec.md §4.8.1's default user_properties
}
