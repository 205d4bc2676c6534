// Package progress implements the shared progress surface described in
// spec.md §4.9: atomic byte counters plus a mutex-guarded step enum,
// sampled by callers at their own cadence rather than pushed as events.
// Grounded on the teacher's reliance on plain shared state for install
// status (mmc.go profile writers) generalised into a dedicated type,
// with abbreviated byte formatting from dustin/go-humanize and
// locale-aware exact counters from golang.org/x/text/message for
// cmd/coniccore's diagnostic output.
package progress

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Step names the current phase of a download or install run.
type Step int

const (
	StepIdle Step = iota
	StepVerifyExistingFiles
	StepDownloadFiles
	StepInstallLibraries
	StepInstallAssets
	StepInstallJava
	StepRunInstaller
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepVerifyExistingFiles:
		return "VerifyExistingFiles"
	case StepDownloadFiles:
		return "DownloadFiles"
	case StepInstallLibraries:
		return "InstallLibraries"
	case StepInstallAssets:
		return "InstallAssets"
	case StepInstallJava:
		return "InstallJava"
	case StepRunInstaller:
		return "RunInstaller"
	case StepComplete:
		return "Complete"
	default:
		return "Idle"
	}
}

// Snapshot is an immutable point-in-time read of a Progress value.
type Snapshot struct {
	Completed uint64
	Total     uint64
	Speed     uint64
	Step      Step
}

// Completed progress is a fraction; callers treat Total == 0 as
// indeterminate.
func (s Snapshot) Fraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// HumanSpeed renders Speed as a per-second byte rate, e.g. "4.2 MB/s".
func (s Snapshot) HumanSpeed() string {
	return humanize.Bytes(s.Speed) + "/s"
}

// localePrinter renders the exact (non-abbreviated) byte counters
// cmd/coniccore shows alongside the humanize.Bytes summaries, with
// thousands separators appropriate to tag (e.g. "1,234,567" for
// language.English, "1.234.567" for language.German).
func localePrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ExactCounts renders "<completed> / <total> bytes" with tag-appropriate
// thousands separators, for diagnostics where HumanSpeed's abbreviated
// form loses precision.
func (s Snapshot) ExactCounts(tag language.Tag) string {
	return localePrinter(tag).Sprintf("%d / %d bytes", s.Completed, s.Total)
}

// Progress is the shared, thread-safe counter the orchestrator holds
// and advances. Callers never receive pushed events; they call
// Snapshot() at their own cadence (spec.md suggests ~100ms).
type Progress struct {
	completed uint64
	total     uint64
	speed     uint64

	mu   sync.Mutex
	step Step
}

// New returns an idle Progress with the given expected total.
func New(total uint64) *Progress {
	return &Progress{total: total, step: StepIdle}
}

func (p *Progress) SetTotal(total uint64) { atomic.StoreUint64(&p.total, total) }
func (p *Progress) AddTotal(delta uint64) { atomic.AddUint64(&p.total, delta) }

func (p *Progress) Add(delta uint64) { atomic.AddUint64(&p.completed, delta) }

func (p *Progress) SetStep(step Step) {
	p.mu.Lock()
	p.step = step
	p.mu.Unlock()
}

func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	step := p.step
	p.mu.Unlock()
	return Snapshot{
		Completed: atomic.LoadUint64(&p.completed),
		Total:     atomic.LoadUint64(&p.total),
		Speed:     atomic.LoadUint64(&p.speed),
		Step:      step,
	}
}

// rollingWindow is how far back the speed sampler averages over, per
// spec.md §4.9's "40-s rolling sums".
const rollingWindow = 40 * time.Second

// sampleInterval is how often the sampler reads the bytes accumulator,
// per spec.md §3's "2 s intervals".
const sampleInterval = 2 * time.Second

// speedSample is one 2s tick's worth of bytes transferred.
type speedSample struct {
	at    time.Time
	bytes uint64
}

// Sampler runs the background 2s-tick speed sampler described in
// spec.md §4.5 step 3. It owns a rolling buffer of samples and writes
// the computed rate back into the Progress it's attached to.
type Sampler struct {
	p       *Progress
	mu      sync.Mutex
	samples []speedSample
	last    uint64
	stop    chan struct{}
	done    chan struct{}
	now     func() time.Time
}

// NewSampler attaches a sampler to p. now defaults to time.Now; tests
// may override it to avoid wall-clock flakiness.
func NewSampler(p *Progress, now func() time.Time) *Sampler {
	if now == nil {
		now = time.Now
	}
	return &Sampler{p: p, stop: make(chan struct{}), done: make(chan struct{}), now: now}
}

// Start launches the sampler's goroutine. Callers stop it with Stop().
func (s *Sampler) Start() {
	go s.run()
}

func (s *Sampler) run() {
	defer close(s.done)
	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Sampler) tick() {
	completed := atomic.LoadUint64(&s.p.completed)
	delta := completed - s.last
	s.last = completed

	now := s.now()
	s.mu.Lock()
	s.samples = append(s.samples, speedSample{at: now, bytes: delta})
	cutoff := now.Add(-rollingWindow)
	i := 0
	for ; i < len(s.samples); i++ {
		if s.samples[i].at.After(cutoff) {
			break
		}
	}
	s.samples = s.samples[i:]
	var total uint64
	var span time.Duration
	if len(s.samples) > 0 {
		total = sumBytes(s.samples)
		span = now.Sub(s.samples[0].at)
	}
	s.mu.Unlock()

	rate := uint64(0)
	if span > 0 {
		rate = uint64(float64(total) / span.Seconds())
	}
	atomic.StoreUint64(&s.p.speed, rate)
}

func sumBytes(samples []speedSample) uint64 {
	var total uint64
	for _, s := range samples {
		total += s.bytes
	}
	return total
}

// Stop halts the sampler and waits for its goroutine to exit.
func (s *Sampler) Stop() {
	close(s.stop)
	<-s.done
}
