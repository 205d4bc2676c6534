package account

import "fmt"

// formatNanoAsUUID lays a nanosecond epoch out in UUID's 8-4-4-4-12 hex
// grouping so offline and Yggdrasil storage keys look like any other
// account uuid on disk, per spec.md §4.7.2/§4.7.3. It is not a
// standards-conformant UUID (no version/variant bits) — only the shape
// callers elsewhere in the launcher expect.
func formatNanoAsUUID(nano int64) string {
	hex := fmt.Sprintf("%016x", uint64(nano))
	padded := hex + "0000000000000000"[:max(0, 32-len(hex))]
	return fmt.Sprintf("%s-%s-%s-%s-%s", padded[0:8], padded[8:12], padded[12:16], padded[16:20], padded[20:32])
}
