package instance

import (
	"os"
	"testing"

	"github.com/conicapps/launcher-core/internal/layout"
)

func TestCreateListGetDelete(t *testing.T) {
	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}

	if err := Create(l, "uuid-1", "My Modpack", "1.20.1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !Exists(l, "uuid-1") {
		t.Fatal("Exists = false after Create")
	}

	list, err := List(l)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].UUID != "uuid-1" {
		t.Fatalf("List = %+v", list)
	}
	if list[0].Installed {
		t.Fatal("Installed = true before .install.lock exists")
	}
	if list[0].Config.Name != "My Modpack" {
		t.Fatalf("Config.Name = %q", list[0].Config.Name)
	}

	if err := os.WriteFile(l.InstallLock("uuid-1"), []byte("ok"), 0o644); err != nil {
		t.Fatalf("WriteFile lock: %v", err)
	}
	got, err := Get(l, "uuid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Installed {
		t.Fatal("Installed = false after .install.lock written")
	}

	if err := Delete(l, "uuid-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if Exists(l, "uuid-1") {
		t.Fatal("Exists = true after Delete")
	}
}

func TestListEmptyWhenInstancesDirMissing(t *testing.T) {
	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	list, err := List(l)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List = %+v, want empty", list)
	}
}
