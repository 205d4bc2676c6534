package launch

import (
	"os"
	"testing"
	"time"

	"github.com/conicapps/launcher-core/internal/download"
	"github.com/conicapps/launcher-core/internal/httpclient"
	"github.com/conicapps/launcher-core/internal/install"
	"github.com/conicapps/launcher-core/internal/layout"
	"github.com/conicapps/launcher-core/internal/version"
)

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	http := httpclient.New(httpclient.Options{})
	engine := download.New(http)
	pipeline := install.New(install.Deps{Layout: l, HTTP: http, Download: engine, Config: download.DefaultConfig()})
	return &Deps{Layout: l, HTTP: http, Download: engine, Installer: pipeline}
}

func TestEnsureCompleteSkipsWhenNothingToDownload(t *testing.T) {
	d := newTestDeps(t)
	rv := &version.ResolvedVersion{ID: "1.20.1"}

	if err := d.ensureComplete("uuid-1", rv, nil, time.Now); err != nil {
		t.Fatalf("ensureComplete: %v", err)
	}
	if _, err := os.Stat(d.Layout.AssetsOKMarker("uuid-1")); err != nil {
		t.Fatalf("expected assets marker written: %v", err)
	}
	if _, err := os.Stat(d.Layout.LibrariesOKMarker("uuid-1")); err != nil {
		t.Fatalf("expected libraries marker written: %v", err)
	}
}

func TestEnsureCompleteSkipsReverificationWhenMarkerFresh(t *testing.T) {
	d := newTestDeps(t)
	rv := &version.ResolvedVersion{ID: "1.20.1"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := d.ensureComplete("uuid-1", rv, nil, func() time.Time { return base }); err != nil {
		t.Fatalf("first ensureComplete: %v", err)
	}

	info, err := os.Stat(d.Layout.AssetsOKMarker("uuid-1"))
	if err != nil {
		t.Fatalf("stat marker: %v", err)
	}
	firstModTime := info.ModTime()

	if err := d.ensureComplete("uuid-1", rv, nil, func() time.Time { return base.Add(time.Hour) }); err != nil {
		t.Fatalf("second ensureComplete: %v", err)
	}
	info2, err := os.Stat(d.Layout.AssetsOKMarker("uuid-1"))
	if err != nil {
		t.Fatalf("stat marker again: %v", err)
	}
	if !info2.ModTime().Equal(firstModTime) {
		t.Fatal("marker should not be rewritten while still fresh")
	}
}
