package launch

import (
	"os"
	"strings"
	"testing"

	"github.com/conicapps/launcher-core/internal/layout"
	"github.com/conicapps/launcher-core/internal/platform"
)

func TestMaterializeScriptContainsHookAndCleanup(t *testing.T) {
	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	uuid := "abc-123"
	nativesRoot := l.NativesRoot("1.20.1")

	opts := EffectiveOptions{}
	opts.ExecuteBeforeLaunch = "echo before"
	opts.ExecuteAfterLaunch = "echo after"
	opts.WrapCommand = "optirun"

	scriptPath, err := materializeScript(l, uuid, nativesRoot, "java", []string{"-jar", "client.jar"}, opts)
	if err != nil {
		t.Fatalf("materializeScript: %v", err)
	}

	raw, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(raw)

	beforeIdx := strings.Index(content, "echo before")
	javaIdx := strings.Index(content, "optirun java")
	afterIdx := strings.Index(content, "echo after")
	cleanupIdx := strings.Index(content, nativesRoot)

	if beforeIdx == -1 || javaIdx == -1 || afterIdx == -1 || cleanupIdx == -1 {
		t.Fatalf("script missing expected sections:\n%s", content)
	}
	if !(beforeIdx < javaIdx && javaIdx < cleanupIdx && cleanupIdx < afterIdx) {
		t.Fatalf("script sections out of order:\n%s", content)
	}

	if platform.Current.OSFamily != platform.Windows {
		info, err := os.Stat(scriptPath)
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Fatalf("script should be executable, mode = %v", info.Mode())
		}
	}
}

func TestMaterializeScriptOmitsHooksWhenUnset(t *testing.T) {
	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	scriptPath, err := materializeScript(l, "uuid", l.NativesRoot("1.20.1"), "java", []string{"-version"}, EffectiveOptions{})
	if err != nil {
		t.Fatalf("materializeScript: %v", err)
	}
	raw, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(raw)
	if strings.Contains(content, "echo") {
		t.Fatalf("expected no hook commands, got:\n%s", content)
	}
	if !strings.Contains(content, "\njava -version\n") {
		t.Fatalf("expected bare java invocation, got:\n%s", content)
	}
}
