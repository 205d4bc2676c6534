package download

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"
)

// hasher wraps the polymorphic checksum of spec.md §4.5.3: None skips
// entirely, Sha1/Sha256 hash incrementally as bytes are written.
type hasher struct {
	kind ChecksumKind
	h    hash.Hash
}

func newHasher(kind ChecksumKind) *hasher {
	switch kind {
	case ChecksumSha1:
		return &hasher{kind: kind, h: sha1.New()}
	case ChecksumSha256:
		return &hasher{kind: kind, h: sha256.New()}
	default:
		return &hasher{kind: ChecksumNone}
	}
}

// Write feeds bytes to the hash; a no-op hasher discards silently.
func (hs *hasher) Write(p []byte) (int, error) {
	if hs.h == nil {
		return len(p), nil
	}
	return hs.h.Write(p)
}

// Matches reports whether the accumulated digest equals want,
// case-insensitively, per spec.md §4.5.3.
func (hs *hasher) Matches(want string) bool {
	if hs.h == nil {
		return true
	}
	if want == "" {
		return true
	}
	got := hex.EncodeToString(hs.h.Sum(nil))
	return strings.EqualFold(got, want)
}

// hashExistingFile streams a file on disk through a fresh hasher of
// the given kind, for the pre-filter verification pass (§4.5 step 1).
func hashExistingFile(path string, kind ChecksumKind) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hs := newHasher(kind)
	if hs.h == nil {
		return "", nil
	}
	if _, err := io.Copy(hs.h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hs.h.Sum(nil)), nil
}
