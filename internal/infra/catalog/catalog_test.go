package catalog_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"first-aid/internal/infra/catalog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoader_BuiltIn(t *testing.T) {
	c, err := catalog.NewLoader(true, discardLogger()).Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("expected built-in injuries")
	}

	first := c.Injuries()[0]
	if first.Key != "burn" {
		t.Errorf("expected file order to be kept, first is %q", first.Key)
	}

	for _, key := range []string{"bleeding", "choking", "heart attack"} {
		injury, ok := c.Lookup(key)
		if !ok {
			t.Fatalf("expected %q in built-in catalog", key)
		}
		if !injury.Critical {
			t.Errorf("expected %q to be critical", key)
		}
	}
	for _, injury := range c.Injuries() {
		if !injury.HasInstructions() {
			t.Errorf("built-in injury %q has no instructions", injury.Key)
		}
	}
}

func TestLoader_YAMLFileKeepsOrder(t *testing.T) {
	c, err := catalog.NewLoader(false, discardLogger()).Load(filepath.Join("testdata", "catalog.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	injuries := c.Injuries()
	want := []string{"sprain", "burn", "splinter"}
	if len(injuries) != len(want) {
		t.Fatalf("expected %d injuries, got %d", len(want), len(injuries))
	}
	for i, key := range want {
		if injuries[i].Key != key {
			t.Errorf("position %d: expected %q, got %q", i, key, injuries[i].Key)
		}
	}

	splinter, _ := c.Lookup("splinter")
	if splinter.HasInstructions() {
		t.Error("expected splinter to have no instructions")
	}
}

func TestLoader_JSON(t *testing.T) {
	data := []byte(`{"injuries": {"Cut": {"synonyms": ["Graze"], "instructions": ["Rinse"], "critical": true}}}`)

	c, err := catalog.NewLoader(false, discardLogger()).Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cut, ok := c.Lookup("cut")
	if !ok {
		t.Fatal("expected cut")
	}
	if !cut.Critical || len(cut.Synonyms) != 1 || cut.Synonyms[0] != "graze" {
		t.Errorf("unexpected injury %+v", cut)
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":         ``,
		"not a mapping": `- burn`,
		"no injuries":   `other: {}`,
		"injuries list": `injuries: [burn]`,
		"bad entry":     `injuries: {burn: {instructions: {a: b}}}`,
		"duplicate key": `{"injuries": {"burn": {}, "Burn": {}}}`,
		"invalid":       `{"injuries": `,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := catalog.NewLoader(false, discardLogger()).Parse([]byte(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := catalog.NewLoader(false, discardLogger()).Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoader_Overlaps(t *testing.T) {
	doc := []byte(`injuries:
  sprain: {synonyms: [twist]}
  fracture: {synonyms: [twist, break]}
`)

	c, err := catalog.NewLoader(false, discardLogger()).Parse(doc)
	if err != nil {
		t.Fatalf("lenient mode should only warn: %v", err)
	}
	if len(c.Overlaps()) != 1 {
		t.Errorf("expected one overlap, got %v", c.Overlaps())
	}

	_, err = catalog.NewLoader(true, discardLogger()).Parse(doc)
	if !errors.Is(err, catalog.ErrOverlap) {
		t.Fatalf("expected ErrOverlap in strict mode, got %v", err)
	}
}
