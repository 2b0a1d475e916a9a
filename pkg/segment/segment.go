// Package segment cuts decoded statement text into line-like candidates for
// transaction extraction.
package segment

import (
	"iter"
	"regexp"
	"unicode/utf8"
)

// DefaultMinLength is the shortest segment that can still hold a date and an
// amount.
const DefaultMinLength = 10

// boundary matches line breaks and the ". " sentence break that PDF text
// extraction leaves behind when it flattens a layout into one stream.
var boundary = regexp.MustCompile(`\r\n|\r|\n|\. `)

type Segmenter struct {
	minLength int
}

// New returns a Segmenter dropping segments shorter than minLength runes.
// A non-positive minLength falls back to DefaultMinLength.
func New(minLength int) *Segmenter {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Segmenter{minLength: minLength}
}

// Split returns the candidate segments of text in document order.
func (s *Segmenter) Split(text string) []string {
	var out []string
	for _, seg := range s.All(text) {
		out = append(out, seg)
	}
	return out
}

// All yields (position, segment) pairs, where position counts every piece
// produced by the split, kept or not. Each call restarts from the beginning.
func (s *Segmenter) All(text string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, piece := range boundary.Split(text, -1) {
			if utf8.RuneCountInString(piece) < s.minLength {
				continue
			}
			if !yield(i, piece) {
				return
			}
		}
	}
}

// Split is a shorthand for New(DefaultMinLength).Split(text).
func Split(text string) []string {
	return New(DefaultMinLength).Split(text)
}
