package application

import (
	"context"

	"first-aid/internal/domain"
)

// Lemmatizer maps a lower-case word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

// SoundsLike compares two words by pronunciation.
type SoundsLike interface {
	SoundsLike(a, b string) bool
}

// InjuryClassifier resolves free text to a catalog key when lexical matching
// found nothing. An empty key means no injury was recognised.
type InjuryClassifier interface {
	Classify(ctx context.Context, text string, catalog *domain.Catalog) (string, error)
}

type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return word }
