package download

// chunk is one byte range of a chunked parallel download.
type chunk struct {
	lo, hi int64 // inclusive byte offsets
}

// chunkCount implements spec.md §4.5.2's exact bracket formula.
func chunkCount(contentLength int64) int {
	const mb = 1_000_000
	switch {
	case contentLength <= 4*mb:
		return 1
	case contentLength <= 30*mb:
		return int(contentLength/(2*mb)) + 1
	case contentLength <= 100*mb:
		return int(contentLength/(4*mb)) + 1
	default:
		return int(contentLength/(10*mb)) + 1
	}
}

// planChunks splits [0, contentLength) into chunkCount(contentLength)
// contiguous ranges, chunk size = floor(len/count), last chunk
// absorbing the remainder — per spec.md §4.5.2 and the worked example
// in §8.3 (length 20_000_000 → 11 chunks of 1_818_181 bytes, last
// chunk (18_181_810, 19_999_999)).
func planChunks(contentLength int64) []chunk {
	count := chunkCount(contentLength)
	size := contentLength / int64(count)
	chunks := make([]chunk, 0, count)
	var lo int64
	for i := 0; i < count; i++ {
		hi := lo + size - 1
		if i == count-1 {
			hi = contentLength - 1
		}
		chunks = append(chunks, chunk{lo: lo, hi: hi})
		lo = hi + 1
	}
	return chunks
}

// maxChunkWorkers bounds concurrent range-GET workers per file, per
// spec.md §4.5.2 "up to 4 concurrent workers".
const maxChunkWorkers = 4

// maxChunkRetries is the per-chunk retry budget from spec.md §4.5.2.
const maxChunkRetries = 10
