package download

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/progress"
)

// fakeClient adapts an httptest server's client to the httpDoer
// interface without pulling in the full httpclient package.
type fakeClient struct{ http.Client }

func (f *fakeClient) Get(url string) (*http.Response, error) {
	return f.Client.Get(url)
}

func (f *fakeClient) Do(req *http.Request) (*http.Response, error) {
	return f.Client.Do(req)
}

func TestChunkCountFormula(t *testing.T) {
	cases := []struct {
		length int64
		want   int
	}{
		{4_000_000, 1},
		{20_000_000, 11},
		{100_000_000, 26},
		{200_000_000, 21},
	}
	for _, c := range cases {
		if got := chunkCount(c.length); got != c.want {
			t.Errorf("chunkCount(%d) = %d, want %d", c.length, got, c.want)
		}
	}
}

func TestPlanChunksWorkedExample(t *testing.T) {
	chunks := planChunks(20_000_000)
	if len(chunks) != 11 {
		t.Fatalf("len(chunks) = %d, want 11", len(chunks))
	}
	last := chunks[10]
	if last.lo != 18_181_810 || last.hi != 19_999_999 {
		t.Errorf("last chunk = (%d, %d), want (18181810, 19999999)", last.lo, last.hi)
	}
}

func TestDownloadVerifiesChecksum(t *testing.T) {
	body := []byte("hello world")
	sum := sha1.Sum(body)
	hexSum := hex.EncodeToString(sum[:])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")

	e := New(&fakeClient{})
	task := Task{URL: srv.URL, TargetPath: target, Checksum: Checksum{Kind: ChecksumSha1, Hex: hexSum}, Size: int64(len(body))}

	if err := e.Download(task, progress.New(uint64(len(body)))); err != nil {
		t.Fatalf("Download: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("content = %q, want %q", got, body)
	}
}

func TestDownloadChecksumMismatchDeletesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")

	e := New(&fakeClient{})
	task := Task{URL: srv.URL, TargetPath: target, Checksum: Checksum{Kind: ChecksumSha1, Hex: "deadbeef"}}

	err := e.Download(task, nil)
	if !conicerr.As(err, conicerr.KindChecksumMismatch) {
		t.Fatalf("expected ChecksumMismatch, got %v", err)
	}
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Errorf("expected target file to be removed after mismatch")
	}
}

func TestClassifyByHost(t *testing.T) {
	t1 := classify(Task{URL: "https://resources.download.minecraft.net/ab/abcdef"})
	if t1.Kind != KindAssets {
		t.Errorf("Kind = %v, want Assets", t1.Kind)
	}
	t2 := classify(Task{URL: "https://libraries.minecraft.net/com/foo/1.0/foo-1.0.jar"})
	if t2.Kind != KindLibraries {
		t.Errorf("Kind = %v, want Libraries", t2.Kind)
	}
}

func TestMirrorRegistryAcquireRelease(t *testing.T) {
	set := MirrorSet{Libraries: []string{"https://m1", "https://m2"}}
	r := NewMirrorRegistry(set)

	m1, ok := r.Acquire(KindLibraries, nil)
	if !ok {
		t.Fatal("expected a mirror to be available")
	}
	m2, ok := r.Acquire(KindLibraries, nil)
	if !ok {
		t.Fatal("expected a second mirror to be available")
	}
	if m1 == m2 {
		t.Errorf("expected distinct mirrors when both are idle, got %s twice", m1)
	}
	r.Release(KindLibraries, m1)
	r.Release(KindLibraries, m2)
}

func TestMirrorRegistryRotatesOnBlacklist(t *testing.T) {
	set := MirrorSet{Libraries: []string{"https://m1", "https://m2"}}
	r := NewMirrorRegistry(set)

	blacklist := map[string]bool{"https://m1": true}
	m, ok := r.Acquire(KindLibraries, blacklist)
	if !ok || m != "https://m2" {
		t.Errorf("expected m2 to be picked, got %q ok=%v", m, ok)
	}
}

func TestRewriteURL(t *testing.T) {
	got := rewriteURL("https://libraries.minecraft.net/com/foo/1.0/foo-1.0.jar", KindLibraries, "https://bmclapi2.bangbang93.com/maven")
	want := "https://bmclapi2.bangbang93.com/maven/com/foo/1.0/foo-1.0.jar"
	if got != want {
		t.Errorf("rewriteURL = %q, want %q", got, want)
	}
}

func TestVerifyCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "verify.db")
	cache, err := OpenVerifyCache(dbPath)
	if err != nil {
		t.Fatalf("OpenVerifyCache: %v", err)
	}
	defer cache.Close()

	target := filepath.Join(dir, "file.bin")
	if err := os.WriteFile(target, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Lookup(target); ok {
		t.Errorf("expected cache miss before Store")
	}
	if err := cache.Store(target, "abc123"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	digest, ok := cache.Lookup(target)
	if !ok || digest != "abc123" {
		t.Errorf("Lookup = (%q, %v), want (abc123, true)", digest, ok)
	}
}
