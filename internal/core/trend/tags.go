package trend

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var tagChain = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			cases.Lower(language.Und),
		)
	},
}

// NormalizeTag trims and lower-cases raw after folding compatibility and full-width forms and
// dropping invisible format runes. Inner whitespace is kept as typed. Returns "" for blank input
func NormalizeTag(raw string) string {
	raw = strings.ToValidUTF8(strings.TrimSpace(raw), "")
	if raw == "" {
		return ""
	}
	tr := tagChain.Get().(transform.Transformer)
	out, _, err := transform.String(tr, raw)
	tr.Reset()
	tagChain.Put(tr)
	if err != nil {
		out = strings.ToLower(raw)
	}
	return strings.TrimSpace(out)
}

// TagSet is an insertion-ordered set of normalized tags. Mutators return a new set
// and never touch the receiver's backing array
type TagSet struct {
	items []string
}

// NewTagSet normalizes and deduplicates raw in order, dropping blanks
func NewTagSet(raw ...string) TagSet {
	var s TagSet
	for _, r := range raw {
		s, _ = s.Add(r)
	}
	return s
}

// Add normalizes raw and appends it; ok is false for blanks and duplicates
func (s TagSet) Add(raw string) (TagSet, bool) {
	tag := NormalizeTag(raw)
	if tag == "" || s.Contains(tag) {
		return s, false
	}
	items := make([]string, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return TagSet{items: append(items, tag)}, true
}

// Remove drops tag (already normalized or not); ok is false when absent
func (s TagSet) Remove(tag string) (TagSet, bool) {
	tag = NormalizeTag(tag)
	idx := s.index(tag)
	if idx < 0 {
		return s, false
	}
	items := make([]string, 0, len(s.items)-1)
	items = append(items, s.items[:idx]...)
	items = append(items, s.items[idx+1:]...)
	return TagSet{items: items}, true
}

// Toggle removes tag when present, adds it otherwise
func (s TagSet) Toggle(tag string) TagSet {
	if out, ok := s.Remove(tag); ok {
		return out
	}
	out, _ := s.Add(tag)
	return out
}

// Contains reports membership of the normalized tag
func (s TagSet) Contains(tag string) bool { return s.index(NormalizeTag(tag)) >= 0 }

// Len is the number of tags
func (s TagSet) Len() int { return len(s.items) }

// Slice returns a copy of the tags in insertion order
func (s TagSet) Slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s TagSet) index(tag string) int {
	for i, t := range s.items {
		if t == tag {
			return i
		}
	}
	return -1
}
