package config

// Server holds the server spec.md §4.8.1 auto-joins on launch, mirroring
// crates/config/src/launch.rs's Server{ip, port}.
type Server struct {
	IP   string `toml:"ip"`
	Port uint16 `toml:"port,omitempty"`
}

// DefaultServerPort is the vanilla Minecraft server port, used when a
// configured Server omits one.
const DefaultServerPort uint16 = 25565

// LaunchConfig holds every user-tunable launch-time setting, mirroring
// crates/config/src/launch.rs's LaunchConfig field-for-field.
type LaunchConfig struct {
	MinMemory                           int     `toml:"min_memory"`
	MaxMemory                           int     `toml:"max_memory"`
	Server                              *Server `toml:"server,omitempty"`
	Width                               int     `toml:"width"`
	Height                              int     `toml:"height"`
	Fullscreen                          bool    `toml:"fullscreen"`
	ExtraJVMArgs                        string  `toml:"extra_jvm_args"`
	ExtraMCArgs                         string  `toml:"extra_mc_args"`
	IsDemo                              bool    `toml:"is_demo"`
	IgnoreInvalidMinecraftCertificates  bool    `toml:"ignore_invalid_minecraft_certificates"`
	IgnorePatchDiscrepancies            bool    `toml:"ignore_patch_discrepancies"`
	ExtraClassPaths                     string  `toml:"extra_class_paths"`
	GC                                  GC      `toml:"gc"`
	LauncherName                        string  `toml:"launcher_name"`
	WrapCommand                         string  `toml:"wrap_command"`
	ExecuteBeforeLaunch                 string  `toml:"execute_before_launch"`
	ExecuteAfterLaunch                  string  `toml:"execute_after_launch"`
	SkipRefreshAccount                  bool    `toml:"skip_refresh_account"`
	SkipCheckFiles                      bool    `toml:"skip_check_files"`
}

const (
	defaultMaxMemory    = 2048
	defaultWidth        = 854
	defaultHeight       = 480
	defaultLauncherName = "Conic_Launcher"
)

// DefaultLaunchConfig mirrors crates/config/src/launch.rs's
// impl Default for LaunchConfig.
func DefaultLaunchConfig() LaunchConfig {
	return LaunchConfig{
		MinMemory:    0,
		MaxMemory:    defaultMaxMemory,
		Width:        defaultWidth,
		Height:       defaultHeight,
		GC:           DefaultGC,
		LauncherName: defaultLauncherName,
	}
}

// Override applies every non-zero field of o onto a copy of lc, the
// per-instance-settings merge of spec.md §4.8 step 2 and
// crates/config/src/instance.rs's InstanceLaunchConfig (where every
// field is an Option<T> that, when set, wins over the global config).
func (lc LaunchConfig) Override(o InstanceLaunchOverrides) LaunchConfig {
	if !o.Enabled {
		return lc
	}
	merged := lc
	if o.MinMemory != nil {
		merged.MinMemory = *o.MinMemory
	}
	if o.MaxMemory != nil {
		merged.MaxMemory = *o.MaxMemory
	}
	if o.Server != nil {
		merged.Server = o.Server
	}
	if o.Width != nil {
		merged.Width = *o.Width
	}
	if o.Height != nil {
		merged.Height = *o.Height
	}
	if o.Fullscreen != nil {
		merged.Fullscreen = *o.Fullscreen
	}
	if o.ExtraJVMArgs != nil {
		merged.ExtraJVMArgs = *o.ExtraJVMArgs
	}
	if o.ExtraMCArgs != nil {
		merged.ExtraMCArgs = *o.ExtraMCArgs
	}
	if o.IsDemo != nil {
		merged.IsDemo = *o.IsDemo
	}
	if o.IgnoreInvalidMinecraftCertificates != nil {
		merged.IgnoreInvalidMinecraftCertificates = *o.IgnoreInvalidMinecraftCertificates
	}
	if o.IgnorePatchDiscrepancies != nil {
		merged.IgnorePatchDiscrepancies = *o.IgnorePatchDiscrepancies
	}
	if o.ExtraClassPaths != nil {
		merged.ExtraClassPaths = *o.ExtraClassPaths
	}
	if o.GC != nil {
		merged.GC = *o.GC
	}
	if o.LauncherName != nil {
		merged.LauncherName = *o.LauncherName
	}
	if o.WrapCommand != nil {
		merged.WrapCommand = *o.WrapCommand
	}
	if o.ExecuteBeforeLaunch != nil {
		merged.ExecuteBeforeLaunch = *o.ExecuteBeforeLaunch
	}
	if o.ExecuteAfterLaunch != nil {
		merged.ExecuteAfterLaunch = *o.ExecuteAfterLaunch
	}
	return merged
}
