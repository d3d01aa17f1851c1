package domain

// Injury is one entry of the first-aid catalog.
type Injury struct {
	Key          string
	Synonyms     []string
	Instructions []string
	Critical     bool
}

// Terms returns the key followed by every synonym.
func (i Injury) Terms() []string {
	terms := make([]string, 0, len(i.Synonyms)+1)
	terms = append(terms, i.Key)
	return append(terms, i.Synonyms...)
}

// HasInstructions reports whether there is at least one step to deliver.
func (i Injury) HasInstructions() bool {
	return len(i.Instructions) > 0
}
