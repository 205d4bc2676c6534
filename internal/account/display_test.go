package account

import (
	"strings"
	"testing"
	"time"
)

func TestFormatAgeRendersRelativeString(t *testing.T) {
	got := FormatAge(time.Now().Add(-3 * 24 * time.Hour))
	if !strings.Contains(got, "day") {
		t.Fatalf("FormatAge = %q, want it to mention days", got)
	}
}
