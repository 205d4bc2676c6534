package config

import "fmt"

// ModLoaderType mirrors crates/config/src/instance.rs's ModLoaderType
// enum, the loader an instance was installed with.
type ModLoaderType string

const (
	ModLoaderFabric    ModLoaderType = "Fabric"
	ModLoaderQuilt     ModLoaderType = "Quilt"
	ModLoaderForge     ModLoaderType = "Forge"
	ModLoaderNeoforged ModLoaderType = "Neoforged"
)

func (m ModLoaderType) String() string { return string(m) }

// InstanceRuntime names the Minecraft version and (optional) mod
// loader an instance resolves against, mirroring
// crates/config/src/instance.rs's InstanceRuntime.
type InstanceRuntime struct {
	Minecraft        string         `toml:"minecraft"`
	ModLoaderType    *ModLoaderType `toml:"mod_loader_type,omitempty"`
	ModLoaderVersion *string        `toml:"mod_loader_version,omitempty"`
}

// VersionID names the version JSON this runtime resolves against,
// mirroring crates/instance/src/lib.rs's Instance::get_version_id: the
// installers (internal/install) write their version JSON under exactly
// this id, so internal/launch recomputes it here rather than needing
// InstallFabric/InstallForge/etc. to report it back.
func (rt InstanceRuntime) VersionID() string {
	if rt.ModLoaderType == nil || rt.ModLoaderVersion == nil {
		return rt.Minecraft
	}
	loaderVersion := *rt.ModLoaderVersion
	switch *rt.ModLoaderType {
	case ModLoaderFabric:
		return fmt.Sprintf("fabric-loader-%s-%s", loaderVersion, rt.Minecraft)
	case ModLoaderQuilt:
		return fmt.Sprintf("quilt-loader-%s-%s", loaderVersion, rt.Minecraft)
	case ModLoaderForge:
		return fmt.Sprintf("%s-forge-%s", rt.Minecraft, loaderVersion)
	case ModLoaderNeoforged:
		return fmt.Sprintf("neoforged-%s", loaderVersion)
	default:
		return rt.Minecraft
	}
}

// InstanceLaunchOverrides mirrors crates/config/src/instance.rs's
// InstanceLaunchConfig: every field is a pointer so an absent field in
// instance.toml means "inherit the global config.toml value", applied
// via LaunchConfig.Override only when Enabled is set.
type InstanceLaunchOverrides struct {
	Enabled                             bool    `toml:"enable_instance_specific_settings"`
	MinMemory                           *int    `toml:"min_memory,omitempty"`
	MaxMemory                           *int    `toml:"max_memory,omitempty"`
	Server                              *Server `toml:"server,omitempty"`
	Width                               *int    `toml:"width,omitempty"`
	Height                              *int    `toml:"height,omitempty"`
	Fullscreen                          *bool   `toml:"fullscreen,omitempty"`
	ExtraJVMArgs                        *string `toml:"extra_jvm_args,omitempty"`
	ExtraMCArgs                         *string `toml:"extra_mc_args,omitempty"`
	IsDemo                              *bool   `toml:"is_demo,omitempty"`
	IgnoreInvalidMinecraftCertificates  *bool   `toml:"ignore_invalid_minecraft_certificates,omitempty"`
	IgnorePatchDiscrepancies            *bool   `toml:"ignore_patch_discrepancies,omitempty"`
	ExtraClassPaths                     *string `toml:"extra_class_paths,omitempty"`
	GC                                  *GC     `toml:"gc,omitempty"`
	LauncherName                        *string `toml:"launcher_name,omitempty"`
	WrapCommand                         *string `toml:"wrap_command,omitempty"`
	ExecuteBeforeLaunch                 *string `toml:"execute_before_launch,omitempty"`
	ExecuteAfterLaunch                  *string `toml:"execute_after_launch,omitempty"`
}

// InstanceConfig is the per-instance instance.toml document, mirroring
// crates/config/src/instance.rs's InstanceConfig.
type InstanceConfig struct {
	Name         string                  `toml:"name"`
	Runtime      InstanceRuntime         `toml:"runtime"`
	Group        []string                `toml:"group,omitempty"`
	LaunchConfig InstanceLaunchOverrides `toml:"launch_config"`
}

// NewInstanceConfig builds a fresh instance.toml document for a new
// instance, mirroring crates/config/src/instance.rs's
// InstanceConfig::new.
func NewInstanceConfig(name, minecraftVersion string) InstanceConfig {
	return InstanceConfig{
		Name:    name,
		Runtime: InstanceRuntime{Minecraft: minecraftVersion},
	}
}

// LoadInstanceConfig reads path, defaulting to a zero-value
// InstanceConfig (every override absent, so LaunchConfig.Override is a
// no-op) if the file does not exist.
func LoadInstanceConfig(path string) (InstanceConfig, error) {
	var cfg InstanceConfig
	existed, err := decodeTOMLOrDefault(path, &cfg)
	if err != nil {
		return InstanceConfig{}, err
	}
	if !existed {
		return cfg, nil
	}
	return cfg, nil
}

// SaveInstanceConfig writes cfg to path using the same pretty TOML
// encoder as the global config.
func SaveInstanceConfig(path string, cfg InstanceConfig) error {
	return encodeTOML(path, cfg)
}
