package nlp

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	"first-aid/internal/application"
)

// Lemmatizer reduces English words to their dictionary form using golem's
// embedded English dictionary.
type Lemmatizer struct {
	golem *golem.Lemmatizer
}

var _ application.Lemmatizer = (*Lemmatizer)(nil)

func NewLemmatizer() (*Lemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("loading english dictionary: %w", err)
	}
	return &Lemmatizer{golem: l}, nil
}

// Lemma returns the base form of word, or word itself when the dictionary
// does not know it.
func (l *Lemmatizer) Lemma(word string) string {
	return l.golem.Lemma(strings.ToLower(word))
}
