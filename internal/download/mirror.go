package download

import (
	"strings"
	"sync"
)

// MirrorRegistry is the per-install-run mirror usage table from
// spec.md §3 "Mirror usage table": a mapping from mirror URL to an
// in-flight-count counter, unique per run. Grounded on spec.md §9's
// "Mirror-aware download loop" design note, which calls for replacing
// ad-hoc global state (as the teacher's package-level getterClient has)
// with a value threaded through the run instead of a global.
type MirrorRegistry struct {
	mu       sync.Mutex
	inFlight map[Kind]map[string]int
}

// NewMirrorRegistry seeds a registry with zero in-flight counts for
// every configured mirror.
func NewMirrorRegistry(set MirrorSet) *MirrorRegistry {
	r := &MirrorRegistry{inFlight: map[Kind]map[string]int{
		KindLibraries: {},
		KindAssets:    {},
	}}
	for _, m := range set.Libraries {
		r.inFlight[KindLibraries][m] = 0
	}
	for _, m := range set.Assets {
		r.inFlight[KindAssets][m] = 0
	}
	return r
}

// Acquire picks the mirror of the given kind with the minimum current
// in-flight count that isn't in blacklist, increments its counter, and
// returns it. ok is false when no eligible mirror exists.
func (r *MirrorRegistry) Acquire(kind Kind, blacklist map[string]bool) (mirror string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mirrors := r.inFlight[kind]
	best := ""
	bestCount := -1
	for m, count := range mirrors {
		if blacklist[m] {
			continue
		}
		if bestCount == -1 || count < bestCount {
			best, bestCount = m, count
		}
	}
	if best == "" {
		return "", false
	}
	mirrors[best]++
	return best, true
}

// Release decrements the in-flight counter for mirror.
func (r *MirrorRegistry) Release(kind Kind, mirror string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mirrors, ok := r.inFlight[kind]; ok {
		if mirrors[mirror] > 0 {
			mirrors[mirror]--
		}
	}
}

// Snapshot returns a copy of the current in-flight counts, for an
// optional mirror-usage reporting loop (spec.md §4.5 step 3).
func (r *MirrorRegistry) Snapshot() map[Kind]map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Kind]map[string]int, len(r.inFlight))
	for kind, mirrors := range r.inFlight {
		copied := make(map[string]int, len(mirrors))
		for m, c := range mirrors {
			copied[m] = c
		}
		out[kind] = copied
	}
	return out
}

// rewriteURL replaces a task URL's canonical-host prefix with mirror,
// per spec.md §4.5 step 5a.
func rewriteURL(taskURL string, kind Kind, mirror string) string {
	canonical := "https://" + kind.canonicalHost()
	if !strings.HasPrefix(taskURL, canonical) {
		return taskURL
	}
	return strings.TrimSuffix(mirror, "/") + strings.TrimPrefix(taskURL, canonical)
}
