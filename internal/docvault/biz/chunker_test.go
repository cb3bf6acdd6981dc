package biz

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleText() string {
	var b strings.Builder
	for i := 1; i <= 400; i++ {
		fmt.Fprintf(&b, "palavra%03d", i)
		switch {
		case i%40 == 0:
			b.WriteString("\n\n")
		case i%13 == 0:
			b.WriteString("\n")
		default:
			b.WriteString(" ")
		}
	}
	return b.String()
}

type span struct{ start, end int }

// locate finds each chunk in text, in order.
func locate(t *testing.T, text string, chunks []string) []span {
	t.Helper()
	spans := make([]span, 0, len(chunks))
	cursor := 0
	for i, c := range chunks {
		idx := strings.Index(text[cursor:], c)
		require.GreaterOrEqual(t, idx, 0, "chunk %d not found in order", i)
		start := cursor + idx
		spans = append(spans, span{start, start + len(c)})
		cursor = start + 1
	}
	return spans
}

func TestSplitRoundTrip(t *testing.T) {
	text := sampleText()
	s := NewRecursiveSplitter(100, 20)
	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	spans := locate(t, text, chunks)

	var rebuilt strings.Builder
	prevEnd := 0
	overlapping := 0
	for i, sp := range spans {
		switch {
		case i == 0:
			rebuilt.WriteString(chunks[i])
		case sp.start < prevEnd:
			overlapping++
			rebuilt.WriteString(text[prevEnd:max(sp.end, prevEnd)])
		default:
			rebuilt.WriteString(" ")
			rebuilt.WriteString(chunks[i])
		}
		prevEnd = max(prevEnd, sp.end)
	}

	assert.Equal(t, strings.Fields(text), strings.Fields(rebuilt.String()))
	assert.Positive(t, overlapping, "consecutive chunks should overlap")
}

func TestSplitSizeBound(t *testing.T) {
	text := sampleText() + " ação-çãé " + strings.Repeat("ü", 37)
	for _, size := range []int{1, 7, 50, 100, 1000} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			chunks := NewRecursiveSplitter(size, size/5).Split(text)
			require.NotEmpty(t, chunks)
			for _, c := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), size)
				assert.NotEmpty(t, strings.TrimSpace(c))
			}
		})
	}
}

func TestSplitPrefersBoundaries(t *testing.T) {
	got := NewRecursiveSplitter(5, 0).Split("aaa\n\nbbb")
	assert.Equal(t, []string{"aaa", "bbb"}, got)

	got = NewRecursiveSplitter(4, 1).Split("abcdefghij")
	assert.Equal(t, []string{"abcd", "defg", "ghij"}, got)
}

func TestSplitTwoPageDocument(t *testing.T) {
	text := "Hello world." + PageBreak + "Hello world."
	got := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap).Split(text)
	require.Len(t, got, 1)
	assert.Equal(t, 2, strings.Count(got[0], "Hello world."))
}

func TestSplitBlank(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split(" \n\f\t "))
}
