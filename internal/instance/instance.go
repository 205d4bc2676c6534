// Package instance is the ambient on-disk bookkeeping shared by
// internal/install and internal/launch: each instance is a UUID-named
// directory under the layout's instances root holding instance.toml
// plus whatever install/launch themselves write there (markers,
// .install.lock, the generated launch script, minecraft/ save data).
// A full instance-management surface is out of scope (spec.md §1's
// Non-goals exclude instance management as a product feature); this
// package lists, reads, creates and deletes instance directories and
// has no rename, the way the teacher's mmc.go reads a MultiMC
// instances directory back into ModPack values.
package instance

import (
	"os"
	"path/filepath"

	"github.com/conicapps/launcher-core/internal/config"
	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/layout"
)

// Summary is what a directory listing needs to render one row,
// without requiring a caller to parse instance.toml itself.
type Summary struct {
	UUID      string
	Config    config.InstanceConfig
	Installed bool // .install.lock present
}

// List enumerates every instance directory under l, skipping any
// entry whose instance.toml fails to parse (a partially-written or
// foreign directory) rather than failing the whole listing.
func List(l *layout.Layout) ([]Summary, error) {
	entries, err := os.ReadDir(l.InstancesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, conicerr.IO(err)
	}

	var out []Summary
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		uuid := e.Name()
		cfg, err := config.LoadInstanceConfig(l.InstanceTOML(uuid))
		if err != nil {
			continue
		}
		_, statErr := os.Stat(l.InstallLock(uuid))
		out = append(out, Summary{UUID: uuid, Config: cfg, Installed: statErr == nil})
	}
	return out, nil
}

// Get loads one instance's Summary by uuid.
func Get(l *layout.Layout, uuid string) (Summary, error) {
	cfg, err := config.LoadInstanceConfig(l.InstanceTOML(uuid))
	if err != nil {
		return Summary{}, err
	}
	_, statErr := os.Stat(l.InstallLock(uuid))
	return Summary{UUID: uuid, Config: cfg, Installed: statErr == nil}, nil
}

// Create lays down a new instance directory for the caller-supplied
// uuid and its instance.toml. Installing and launching it is the
// caller's job (internal/install, internal/launch); this only
// establishes the on-disk shape those packages expect.
func Create(l *layout.Layout, uuid, name, minecraftVersion string) error {
	dir := l.InstanceDir(uuid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return conicerr.IO(err)
	}
	cfg := config.NewInstanceConfig(name, minecraftVersion)
	return config.SaveInstanceConfig(l.InstanceTOML(uuid), cfg)
}

// Delete removes an instance's entire directory tree. Irreversible;
// callers own confirming with the user before calling this.
func Delete(l *layout.Layout, uuid string) error {
	if err := os.RemoveAll(l.InstanceDir(uuid)); err != nil {
		return conicerr.IO(err)
	}
	return nil
}

// Exists reports whether uuid names a directory under l's instances
// root, regardless of whether instance.toml parses.
func Exists(l *layout.Layout, uuid string) bool {
	info, err := os.Stat(filepath.Join(l.InstancesDir(), uuid))
	return err == nil && info.IsDir()
}
