package download

import (
	"database/sql"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

// VerifyCache is an additive local cache of previously-computed file
// digests, keyed by path + mtime + size, sparing the pre-filter pass
// from rehashing unchanged files on every install/launch. Grounded on
// the teacher's metacache.go/db.go (a sqlite-backed content cache for
// mod metadata), repurposed here for checksum memoisation instead of
// mod-file lookups.
type VerifyCache struct {
	db *sql.DB
}

// OpenVerifyCache opens (creating if absent) the sqlite database at
// path and ensures its schema exists.
func OpenVerifyCache(path string) (*VerifyCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, conicerr.IO(err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS verified_files (
	path TEXT NOT NULL,
	mtime INTEGER NOT NULL,
	size INTEGER NOT NULL,
	digest TEXT NOT NULL,
	PRIMARY KEY (path, mtime, size)
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, conicerr.IO(err)
	}
	return &VerifyCache{db: db}, nil
}

func (c *VerifyCache) Close() error { return c.db.Close() }

// Lookup returns the cached digest for path if its mtime and size
// still match what's on disk.
func (c *VerifyCache) Lookup(path string) (digest string, ok bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	row := c.db.QueryRow(
		`SELECT digest FROM verified_files WHERE path = ? AND mtime = ? AND size = ?`,
		path, info.ModTime().UnixNano(), info.Size(),
	)
	if err := row.Scan(&digest); err != nil {
		return "", false
	}
	return digest, true
}

// Store records path's current mtime/size/digest, evicting any stale
// entry for the same path first.
func (c *VerifyCache) Store(path, digest string) error {
	info, err := os.Stat(path)
	if err != nil {
		return conicerr.IO(err)
	}
	if _, err := c.db.Exec(`DELETE FROM verified_files WHERE path = ?`, path); err != nil {
		return conicerr.IO(err)
	}
	_, err = c.db.Exec(
		`INSERT INTO verified_files (path, mtime, size, digest) VALUES (?, ?, ?, ?)`,
		path, info.ModTime().UnixNano(), info.Size(), digest,
	)
	if err != nil {
		return conicerr.IO(err)
	}
	return nil
}

// fileVerifiedCached is fileVerified augmented with an optional cache:
// a cache hit skips rehashing entirely, a miss falls back to hashing
// and populates the cache.
func fileVerifiedCached(t Task, cache *VerifyCache) bool {
	if cache == nil {
		return fileVerified(t)
	}
	if t.Checksum.Kind == ChecksumNone {
		return false
	}
	if _, err := os.Stat(t.TargetPath); err != nil {
		return false
	}
	if digest, ok := cache.Lookup(t.TargetPath); ok {
		return strings.EqualFold(digest, t.Checksum.Hex)
	}
	digest, err := hashExistingFile(t.TargetPath, t.Checksum.Kind)
	if err != nil {
		return false
	}
	_ = cache.Store(t.TargetPath, digest)
	return strings.EqualFold(digest, t.Checksum.Hex)
}
