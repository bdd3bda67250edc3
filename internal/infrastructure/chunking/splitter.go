// Package chunking cuts long document text layers into prompt-sized pieces.
package chunking

import "strings"

// Splitter packs whole paragraphs into chunks of at most ChunkSize runes.
// A paragraph longer than ChunkSize is cut on rune boundaries.
type Splitter struct {
	ChunkSize int
}

func NewSplitter(chunkSize int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 8000
	}
	return &Splitter{ChunkSize: chunkSize}
}

func (s *Splitter) Split(text string) []string {
	var (
		out     []string
		current []rune
	)
	flush := func() {
		if chunk := strings.TrimSpace(string(current)); chunk != "" {
			out = append(out, chunk)
		}
		current = current[:0]
	}

	for _, para := range strings.Split(text, "\n\n") {
		runes := []rune(strings.TrimSpace(para))
		if len(runes) == 0 {
			continue
		}
		sep := 0
		if len(current) > 0 {
			sep = 2
		}
		if len(current)+sep+len(runes) <= s.ChunkSize {
			if sep > 0 {
				current = append(current, '\n', '\n')
			}
			current = append(current, runes...)
			continue
		}
		flush()
		for len(runes) > s.ChunkSize {
			out = append(out, strings.TrimSpace(string(runes[:s.ChunkSize])))
			runes = runes[s.ChunkSize:]
		}
		current = append(current, runes...)
	}
	flush()
	return out
}

// Head returns the first chunk of text and whether anything was left out.
func (s *Splitter) Head(text string) (string, bool) {
	chunks := s.Split(text)
	if len(chunks) == 0 {
		return "", false
	}
	return chunks[0], len(chunks) > 1
}
