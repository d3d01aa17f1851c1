package domain

import (
	"fmt"
	"strings"
)

// Catalog is the read-only table of known injuries. Iteration order is the
// order the injuries were supplied in, which is also the match tie-break order.
type Catalog struct {
	injuries []Injury
	index    map[string]int
}

// Overlap describes a term claimed by more than one injury.
type Overlap struct {
	Term    string
	Winner  string
	Shadows string
}

func NewCatalog(injuries []Injury) (*Catalog, error) {
	c := &Catalog{
		injuries: make([]Injury, 0, len(injuries)),
		index:    make(map[string]int, len(injuries)),
	}

	for _, in := range injuries {
		key := normalizeTerm(in.Key)
		if key == "" {
			return nil, fmt.Errorf("injury with empty key")
		}
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("duplicate injury key %q", key)
		}

		synonyms := make([]string, 0, len(in.Synonyms))
		for _, s := range in.Synonyms {
			if s = normalizeTerm(s); s != "" {
				synonyms = append(synonyms, s)
			}
		}

		c.index[key] = len(c.injuries)
		c.injuries = append(c.injuries, Injury{
			Key:          key,
			Synonyms:     synonyms,
			Instructions: append([]string(nil), in.Instructions...),
			Critical:     in.Critical,
		})
	}

	return c, nil
}

func (c *Catalog) Lookup(key string) (Injury, bool) {
	i, ok := c.index[normalizeTerm(key)]
	if !ok {
		return Injury{}, false
	}
	return c.injuries[i], true
}

// Injuries returns a copy of the entries in catalog order.
func (c *Catalog) Injuries() []Injury {
	out := make([]Injury, len(c.injuries))
	copy(out, c.injuries)
	return out
}

func (c *Catalog) Len() int {
	return len(c.injuries)
}

// Overlaps lists every term that appears in more than one injury. The
// earlier injury is the one the matcher will pick.
func (c *Catalog) Overlaps() []Overlap {
	owner := make(map[string]string)
	var overlaps []Overlap

	for _, in := range c.injuries {
		seen := make(map[string]bool)
		for _, term := range in.Terms() {
			if seen[term] {
				continue
			}
			seen[term] = true

			if first, ok := owner[term]; ok {
				overlaps = append(overlaps, Overlap{Term: term, Winner: first, Shadows: in.Key})
				continue
			}
			owner[term] = in.Key
		}
	}

	return overlaps
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
