// Package install implements spec.md §4.6's installer pipeline:
// vanilla manifest generation, mod-loader installers (Fabric, Quilt,
// Forge, NeoForged), the Mojang Java runtime installer, the
// authlib-injector download, and single-flight pipeline orchestration.
// Grounded throughout on the teacher's forge.go/fabric.go/minecraft.go
// (gabs-based profile navigation, subprocess invocation via os/exec,
// xi2/xz for legacy .pack.xz unpacking) generalised from mcdex's
// mod-pack-oriented install flow to the spec's instance-oriented one.
package install

import (
	"github.com/conicapps/launcher-core/internal/download"
	"github.com/conicapps/launcher-core/internal/httpclient"
	"github.com/conicapps/launcher-core/internal/layout"
)

// Loader names the mod-loader kind an instance wants installed, if any.
type Loader string

const (
	LoaderNone      Loader = ""
	LoaderFabric    Loader = "fabric"
	LoaderQuilt     Loader = "quilt"
	LoaderForge     Loader = "forge"
	LoaderNeoForged Loader = "neoforged"
)

// Request describes one Install() call.
type Request struct {
	InstanceUUID   string
	MinecraftVer   string
	Loader         Loader
	LoaderVersion  string
	JavaExecutable string // required only when a mod-loader installer must run
}

// Deps bundles the shared collaborators the pipeline threads through
// every stage.
type Deps struct {
	Layout   *layout.Layout
	HTTP     *httpclient.Client
	Download *download.Engine
	Config   download.Config
}

// Pipeline runs Install() calls, enforcing the single-flight rule of
// spec.md §4.6.5 ("Exactly one install may run at a time process-wide").
type Pipeline struct {
	deps Deps
	sem  chan struct{}
}

// New builds a Pipeline around deps.
func New(deps Deps) *Pipeline {
	return &Pipeline{deps: deps, sem: make(chan struct{}, 1)}
}
