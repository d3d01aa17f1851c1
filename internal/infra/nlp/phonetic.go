package nlp

import (
	"strings"

	"github.com/antzucaro/matchr"

	"first-aid/internal/application"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
	minPhoneticLength        = 4
)

// Phonetic compares words with Double Metaphone codes, ranked by
// Jaro-Winkler similarity.
type Phonetic struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

var _ application.SoundsLike = (*Phonetic)(nil)

type PhoneticOption func(*Phonetic)

// WithFuzzyThreshold sets the similarity needed when pronunciation codes differ.
func WithFuzzyThreshold(threshold float64) PhoneticOption {
	return func(p *Phonetic) { p.fuzzyThreshold = threshold }
}

func NewPhonetic(opts ...PhoneticOption) *Phonetic {
	p := &Phonetic{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SoundsLike reports whether a and b are likely the same spoken word. Words
// shorter than four letters never match; too many of them collide.
func (p *Phonetic) SoundsLike(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if len(a) < minPhoneticLength || len(b) < minPhoneticLength {
		return false
	}
	if a == b {
		return true
	}

	score := matchr.JaroWinkler(a, b, false)
	if codesOverlap(a, b) {
		return score >= p.phoneticThreshold
	}
	return score >= p.fuzzyThreshold
}

func codesOverlap(a, b string) bool {
	ap, as := matchr.DoubleMetaphone(a)
	bp, bs := matchr.DoubleMetaphone(b)

	for _, x := range []string{ap, as} {
		if x == "" {
			continue
		}
		if x == bp || x == bs {
			return true
		}
	}
	return false
}
