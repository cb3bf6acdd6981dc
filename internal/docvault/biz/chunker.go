package biz

import (
	"strings"
	"unicode/utf8"
)

// Chunking defaults.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried in order: page, paragraph, line, word and
// finally single characters.
var DefaultSeparators = []string{"\f", "\n\n", "\n", " ", ""}

// Splitter cuts text into chunks for embedding.
type Splitter interface {
	Split(text string) []string
}

// RecursiveSplitter splits on the highest priority separator present and
// recurses into pieces that are still too large. Sizes are in runes.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

var _ Splitter = (*RecursiveSplitter)(nil)

// NewRecursiveSplitter returns a splitter with the default separators.
func NewRecursiveSplitter(size, overlap int) *RecursiveSplitter {
	return &RecursiveSplitter{ChunkSize: size, ChunkOverlap: overlap, Separators: DefaultSeparators}
}

// Split returns the chunks in text order. Blank input yields no chunks.
func (s *RecursiveSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := max(min(s.ChunkOverlap, size-1), 0)

	separators := s.Separators
	if len(separators) == 0 {
		separators = DefaultSeparators
	}

	w := splitWindow{size: size, overlap: overlap}
	return w.split(text, separators)
}

type splitWindow struct {
	size    int
	overlap int
}

func (w splitWindow) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var chunks, small []string
	for _, piece := range strings.Split(text, separator) {
		if piece == "" {
			continue
		}
		if runeLen(piece) < w.size {
			small = append(small, piece)
			continue
		}

		if len(small) > 0 {
			chunks = append(chunks, w.merge(small, separator)...)
			small = nil
		}
		if len(rest) == 0 {
			if p := strings.TrimSpace(piece); p != "" {
				chunks = append(chunks, p)
			}
		} else {
			chunks = append(chunks, w.split(piece, rest)...)
		}
	}
	if len(small) > 0 {
		chunks = append(chunks, w.merge(small, separator)...)
	}
	return chunks
}

// merge packs pieces into chunks of at most size runes, carrying up to
// overlap runes of trailing pieces into the next chunk.
func (w splitWindow) merge(pieces []string, separator string) []string {
	sepLen := runeLen(separator)

	var chunks, window []string
	total := 0
	joinCost := func() int {
		if len(window) > 0 {
			return sepLen
		}
		return 0
	}

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n+joinCost() > w.size && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > w.overlap || (total > 0 && total+n+joinCost() > w.size) {
				total -= runeLen(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		total += n + joinCost()
		window = append(window, piece)
	}

	if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
