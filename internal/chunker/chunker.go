// Package chunker splits text into overlapping fixed-size pieces for
// embedding. Chunks are deterministic and reversible: stripping the
// overlap from every chunk after the first reconstructs the input.
package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidChunking indicates chunk parameters that would not advance
// through the input or would produce unbounded output.
var ErrInvalidChunking = errors.New("invalid chunk parameters")

// Chunk splits text into ordered pieces of at most size runes, where
// consecutive pieces share exactly overlap runes. The last piece may be
// shorter. If text fits in a single chunk, exactly one chunk holding the
// whole text is returned.
//
// size must be positive and overlap must be in [0, size).
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidChunking, overlap, size)
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (len(runes)-overlap+step-1)/step)
	for start := 0; ; start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks, nil
		}
		chunks = append(chunks, string(runes[start:end]))
	}
}

// Reassemble inverts Chunk: it concatenates chunks with the shared
// overlap removed. Used to verify the chunking round trip.
func Reassemble(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	out := []rune(chunks[0])
	for _, c := range chunks[1:] {
		runes := []rune(c)
		if len(runes) > overlap {
			runes = runes[overlap:]
		} else {
			runes = nil
		}
		out = append(out, runes...)
	}
	return string(out)
}
