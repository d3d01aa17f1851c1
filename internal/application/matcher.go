package application

import (
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"first-aid/internal/domain"
)

// Matcher resolves free text to the catalog injury it refers to.
type Matcher struct {
	catalog    *domain.Catalog
	lemmatizer Lemmatizer
	phonetic   SoundsLike
	logger     *slog.Logger
	entries    []matchEntry
}

type matchEntry struct {
	key   string
	terms [][]string
}

type wordForms struct {
	surface string
	lemma   string
}

type MatcherOption func(*Matcher)

// WithLemmatizer sets the lemmatizer applied to input words.
func WithLemmatizer(l Lemmatizer) MatcherOption {
	return func(m *Matcher) { m.lemmatizer = l }
}

// WithPhonetic enables a pronunciation based fallback for single-word terms.
func WithPhonetic(p SoundsLike) MatcherOption {
	return func(m *Matcher) { m.phonetic = p }
}

func NewMatcher(catalog *domain.Catalog, logger *slog.Logger, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		catalog:    catalog,
		lemmatizer: identityLemmatizer{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, injury := range catalog.Injuries() {
		entry := matchEntry{key: injury.Key}
		for _, term := range injury.Terms() {
			if words := Tokenize(term); len(words) > 0 {
				entry.terms = append(entry.terms, words)
			}
		}
		m.entries = append(m.entries, entry)
	}

	return m
}

func (m *Matcher) Catalog() *domain.Catalog {
	return m.catalog
}

// Match returns the key of the first injury, in catalog order, with a term
// present in text.
func (m *Matcher) Match(text string) (string, bool) {
	input := m.forms(Tokenize(text))
	if len(input) == 0 {
		return "", false
	}

	for _, entry := range m.entries {
		for _, term := range entry.terms {
			if containsSequence(input, term) {
				m.logger.Debug("matched injury", "key", entry.key, "text", text)
				return entry.key, true
			}
		}
	}

	if m.phonetic == nil {
		return "", false
	}

	for _, entry := range m.entries {
		for _, term := range entry.terms {
			if len(term) != 1 {
				continue
			}
			for _, w := range input {
				if m.phonetic.SoundsLike(w.surface, term[0]) {
					m.logger.Debug("matched injury phonetically", "key", entry.key, "word", w.surface)
					return entry.key, true
				}
			}
		}
	}

	return "", false
}

func (m *Matcher) forms(tokens []string) []wordForms {
	out := make([]wordForms, 0, len(tokens))
	for _, t := range tokens {
		lemma := strings.ToLower(m.lemmatizer.Lemma(t))
		if lemma == "" {
			lemma = t
		}
		out = append(out, wordForms{surface: t, lemma: lemma})
	}
	return out
}

// matches reports whether the input word, as spoken or as its lemma, is the
// catalog word. Catalog terms are never lemmatized.
func (w wordForms) matches(term string) bool {
	return w.surface == term || w.lemma == term
}

func containsSequence(input []wordForms, term []string) bool {
	for start := 0; start+len(term) <= len(input); start++ {
		matched := true
		for i := range term {
			if !input[start+i].matches(term[i]) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// Tokenize lower-cases text and splits it into words.
func Tokenize(text string) []string {
	text = strings.ToLower(norm.NFKC.String(text))

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	tokens := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'"); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ContainsWord reports whether any of words appears as a whole token in text.
func ContainsWord(text string, words ...string) bool {
	for _, t := range Tokenize(text) {
		for _, w := range words {
			if t == w {
				return true
			}
		}
	}
	return false
}
