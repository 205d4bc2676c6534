package progress

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestSnapshotExactCountsUsesLocaleSeparators(t *testing.T) {
	snap := Snapshot{Completed: 1234567, Total: 7654321}
	got := snap.ExactCounts(language.English)
	want := "1,234,567 / 7,654,321 bytes"
	if got != want {
		t.Errorf("ExactCounts(en) = %q, want %q", got, want)
	}
}

func TestSnapshotFraction(t *testing.T) {
	p := New(200)
	p.Add(50)
	snap := p.Snapshot()
	if got, want := snap.Fraction(), 0.25; got != want {
		t.Errorf("Fraction() = %v, want %v", got, want)
	}
}

func TestFractionIndeterminateWhenTotalZero(t *testing.T) {
	p := New(0)
	p.Add(10)
	if got := p.Snapshot().Fraction(); got != 0 {
		t.Errorf("Fraction() = %v, want 0", got)
	}
}

func TestSetStep(t *testing.T) {
	p := New(10)
	p.SetStep(StepDownloadFiles)
	if got := p.Snapshot().Step; got != StepDownloadFiles {
		t.Errorf("Step = %v, want %v", got, StepDownloadFiles)
	}
	if got, want := StepDownloadFiles.String(), "DownloadFiles"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSamplerComputesRollingRate(t *testing.T) {
	p := New(1000)
	current := time.Unix(0, 0)
	now := func() time.Time { return current }

	s := NewSampler(p, now)

	p.Add(200)
	s.tick()
	current = current.Add(sampleInterval)

	p.Add(200)
	s.tick()

	snap := p.Snapshot()
	if snap.Speed == 0 {
		t.Errorf("expected nonzero speed after ticks, got 0")
	}
}

func TestSamplerWindowDropsOldSamples(t *testing.T) {
	p := New(1000)
	current := time.Unix(0, 0)
	now := func() time.Time { return current }
	s := NewSampler(p, now)

	p.Add(1000)
	s.tick()

	current = current.Add(rollingWindow + sampleInterval)
	s.tick()

	snap := p.Snapshot()
	if snap.Speed != 0 {
		t.Errorf("expected stale sample to fall out of window, speed = %d", snap.Speed)
	}
}
