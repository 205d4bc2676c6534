package download

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/progress"
)

// Engine runs single-file and bulk verified downloads against a
// shared HTTP client, per spec.md §4.5.
type Engine struct {
	client   httpDoer
	maxSpeed uint64 // bytes/s, 0 disables throttling; set per DownloadConcurrent run
	Cache    *VerifyCache
}

// httpDoer is the minimal surface Engine needs from httpclient.Client,
// kept narrow so tests can substitute a fake.
type httpDoer interface {
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// New builds an Engine around client (typically *httpclient.Client).
func New(client httpDoer) *Engine {
	return &Engine{client: client}
}

// Download fetches a single task, verifying its checksum, per spec.md
// §4.5's "download(task, progress)". It fails fast; retries are the
// caller's responsibility (DownloadConcurrent implements them).
func (e *Engine) Download(task Task, prog *progress.Progress) error {
	if err := os.MkdirAll(filepath.Dir(task.TargetPath), 0o755); err != nil {
		return conicerr.IO(err)
	}

	resp, err := e.client.Get(task.URL)
	if err != nil {
		return conicerr.Network(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return conicerr.HTTPResponseNotSuccess(resp.StatusCode, resp.Status)
	}

	tempPath := task.TargetPath + ".part"
	f, err := os.Create(tempPath)
	if err != nil {
		return conicerr.IO(err)
	}

	hs := newHasher(task.Checksum.Kind)
	writer := io.MultiWriter(f, hs)

	tr := &throttledReader{r: resp.Body, prog: prog, maxSpeed: atomic.LoadUint64(&e.maxSpeed)}
	if _, err := io.Copy(writer, tr); err != nil {
		f.Close()
		os.Remove(tempPath)
		return conicerr.IO(err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return conicerr.IO(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return conicerr.IO(err)
	}

	if !hs.Matches(task.Checksum.Hex) {
		os.Remove(tempPath)
		return conicerr.ChecksumMismatch(task.URL)
	}

	if err := os.Rename(tempPath, task.TargetPath); err != nil {
		os.Remove(tempPath)
		return conicerr.IO(err)
	}
	if prog != nil {
		prog.Add(uint64(task.Size))
	}
	return nil
}

// throttledReader wraps a response body and applies the cooperative
// throttling of spec.md §4.5.1 step 3a before each read.
type throttledReader struct {
	r        io.Reader
	prog     *progress.Progress
	maxSpeed uint64
}

func (t *throttledReader) Read(p []byte) (int, error) {
	sleepIfThrottled(t.prog, t.maxSpeed)
	return t.r.Read(p)
}

const maxAttemptsPerTask = 5

// DownloadConcurrent implements spec.md §4.5's full pipeline: pre-filter
// existing files, classify by host, run a bounded parallel stream with
// mirror rotation and retry/blacklist, driven by a speed sampler.
func (e *Engine) DownloadConcurrent(tasks []Task, prog *progress.Progress, cfg Config) error {
	if prog == nil {
		prog = progress.New(0)
	}
	atomic.StoreUint64(&e.maxSpeed, cfg.MaxDownloadSpeed)

	sampler := progress.NewSampler(prog, nil)
	sampler.Start()
	defer sampler.Stop()

	prog.SetStep(progress.StepVerifyExistingFiles)
	pending := e.prefilter(tasks, prog)

	for i, t := range pending {
		pending[i] = classify(t)
	}

	registry := NewMirrorRegistry(cfg.Mirror)

	prog.SetStep(progress.StepDownloadFiles)
	prog.SetTotal(uint64(len(pending)))

	maxConn := cfg.MaxConnections
	if maxConn <= 0 {
		maxConn = 100
	}

	sem := make(chan struct{}, maxConn)
	var wg sync.WaitGroup
	errCh := make(chan error, len(pending))

	for _, t := range pending {
		t := t
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := e.downloadWithRetry(t, prog, registry); err != nil {
				select {
				case errCh <- err:
				default:
				}
			} else {
				prog.Add(1)
			}
		}()
	}
	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		return err
	}
	prog.SetStep(progress.StepComplete)
	return nil
}

// prefilter implements spec.md §4.5 step 1: keep only tasks whose
// on-disk file is absent, unreadable, has no checksum, or mismatches.
func (e *Engine) prefilter(tasks []Task, prog *progress.Progress) []Task {
	type result struct {
		task Task
		keep bool
	}
	results := make([]result, len(tasks))
	var wg sync.WaitGroup
	for i, t := range tasks {
		i, t := i, t
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = result{task: t, keep: !fileVerifiedCached(t, e.Cache)}
			if !results[i].keep {
				prog.Add(1)
			}
		}()
	}
	wg.Wait()

	var out []Task
	for _, r := range results {
		if r.keep {
			out = append(out, r.task)
		}
	}
	return out
}

func fileVerified(t Task) bool {
	if t.Checksum.Kind == ChecksumNone {
		return false
	}
	if _, err := os.Stat(t.TargetPath); err != nil {
		return false
	}
	digest, err := hashExistingFile(t.TargetPath, t.Checksum.Kind)
	if err != nil {
		return false
	}
	return strings.EqualFold(digest, t.Checksum.Hex)
}

// downloadWithRetry implements spec.md §4.5 step 5: mirror assignment,
// execution, and up-to-5-attempt retry with per-task mirror blacklist.
func (e *Engine) downloadWithRetry(t Task, prog *progress.Progress, registry *MirrorRegistry) error {
	blacklist := map[string]bool{}
	var lastErr error

	for attempt := 1; attempt <= maxAttemptsPerTask; attempt++ {
		attemptTask := t
		var mirror string
		usedMirror := false
		if t.Kind == KindLibraries || t.Kind == KindAssets {
			if m, ok := registry.Acquire(t.Kind, blacklist); ok {
				mirror = m
				usedMirror = true
				attemptTask.URL = rewriteURL(t.URL, t.Kind, m)
			}
		}

		err := e.downloadOne(attemptTask, prog)

		if usedMirror {
			registry.Release(t.Kind, mirror)
		}

		if err == nil {
			return nil
		}
		lastErr = err
		if usedMirror {
			blacklist[mirror] = true
		}
	}
	return lastErr
}

// downloadOne picks between the chunked and sequential executors per
// spec.md §4.5.1.
func (e *Engine) downloadOne(t Task, prog *progress.Progress) error {
	if t.Size > 0 {
		if ranges, ok := e.probeRangeSupport(t.URL, t.Size); ok {
			return e.downloadChunked(t, prog, ranges)
		}
	}
	return e.Download(t, prog)
}

// probeRangeSupport HEADs the URL to check Accept-Ranges: bytes, per
// spec.md §4.5.1 step 2.
func (e *Engine) probeRangeSupport(url string, size int64) (int64, bool) {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return 0, false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return 0, false
	}
	resp.Body.Close()
	if resp.Header.Get("Accept-Ranges") != "bytes" {
		return 0, false
	}
	cl := resp.ContentLength
	if cl <= 0 {
		if v, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil {
			cl = v
		}
	}
	if cl <= 0 {
		cl = size
	}
	return cl, true
}

// downloadChunked implements spec.md §4.5.2: split into chunks, issue
// concurrent Range GETs, verify received byte counts, retry per chunk.
func (e *Engine) downloadChunked(t Task, prog *progress.Progress, contentLength int64) error {
	if err := os.MkdirAll(filepath.Dir(t.TargetPath), 0o755); err != nil {
		return conicerr.IO(err)
	}
	tempPath := t.TargetPath + ".part"
	f, err := os.Create(tempPath)
	if err != nil {
		return conicerr.IO(err)
	}
	if err := f.Truncate(contentLength); err != nil {
		f.Close()
		os.Remove(tempPath)
		return conicerr.IO(err)
	}

	chunks := planChunks(contentLength)
	sem := make(chan struct{}, maxChunkWorkers)
	var wg sync.WaitGroup
	errCh := make(chan error, len(chunks))
	var mu sync.Mutex

	for _, c := range chunks {
		c := c
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := e.fetchChunkWithRetry(t.URL, f, &mu, c, prog); err != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return conicerr.IO(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return conicerr.IO(err)
	}

	if t.Checksum.Kind != ChecksumNone {
		digest, err := hashExistingFile(tempPath, t.Checksum.Kind)
		if err != nil {
			os.Remove(tempPath)
			return conicerr.IO(err)
		}
		if !strings.EqualFold(digest, t.Checksum.Hex) {
			os.Remove(tempPath)
			return conicerr.ChecksumMismatch(t.URL)
		}
	}

	if err := os.Rename(tempPath, t.TargetPath); err != nil {
		os.Remove(tempPath)
		return conicerr.IO(err)
	}
	return nil
}

func (e *Engine) fetchChunkWithRetry(url string, f *os.File, mu *sync.Mutex, c chunk, prog *progress.Progress) error {
	var lastErr error
	for attempt := 1; attempt <= maxChunkRetries; attempt++ {
		if err := e.fetchChunk(url, f, mu, c, prog); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (e *Engine) fetchChunk(url string, f *os.File, mu *sync.Mutex, c chunk, prog *progress.Progress) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return conicerr.URLParse(err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", c.lo, c.hi))

	resp, err := e.client.Do(req)
	if err != nil {
		return conicerr.Network(err)
	}
	defer resp.Body.Close()

	sleepIfThrottled(prog, atomic.LoadUint64(&e.maxSpeed))

	want := c.hi - c.lo + 1
	buf := make([]byte, want)
	n, err := io.ReadFull(resp.Body, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return conicerr.IO(err)
	}
	if int64(n) != want {
		return conicerr.ChunkLengthMismatch()
	}

	mu.Lock()
	_, werr := f.WriteAt(buf, c.lo)
	mu.Unlock()
	if werr != nil {
		return conicerr.IO(werr)
	}
	if prog != nil {
		prog.Add(uint64(n))
	}
	return nil
}

// sleepIfThrottled implements spec.md §4.5.1 step 3a's cooperative
// throttling: while the sampler's current speed exceeds
// max_download_speed (and that speed is meaningfully large), sleep
// 100ms and recheck.
func sleepIfThrottled(prog *progress.Progress, maxSpeed uint64) {
	if maxSpeed == 0 || prog == nil {
		return
	}
	for {
		snap := prog.Snapshot()
		if snap.Speed <= maxSpeed || snap.Speed <= 1024 {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}
