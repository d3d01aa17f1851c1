package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"first-aid/internal/domain"
)

//go:embed first_aid_data.json
var defaultData []byte

// ErrOverlap is returned in strict mode when two injuries share a term.
var ErrOverlap = errors.New("overlapping injury terms")

type entry struct {
	Synonyms     []string `yaml:"synonyms"`
	Instructions []string `yaml:"instructions"`
	Critical     bool     `yaml:"critical"`
}

type Loader struct {
	strict bool
	logger *slog.Logger
}

func NewLoader(strict bool, logger *slog.Logger) *Loader {
	return &Loader{strict: strict, logger: logger}
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func (l *Loader) Load(path string) (*domain.Catalog, error) {
	data := defaultData
	source := "built-in"

	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file: %w", err)
		}
		source = path
	}

	c, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", source, err)
	}

	l.logger.Info("catalog loaded", "source", source, "injuries", c.Len())
	return c, nil
}

// Parse decodes a JSON or YAML document of the form
// {"injuries": {key: {synonyms, instructions, critical}}}. Mapping order in
// the document becomes catalog order.
func (l *Loader) Parse(data []byte) (*domain.Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("catalog is empty")
	}

	injuriesNode, err := lookupMapping(root.Content[0], "injuries")
	if err != nil {
		return nil, err
	}

	injuries := make([]domain.Injury, 0, len(injuriesNode.Content)/2)
	for i := 0; i+1 < len(injuriesNode.Content); i += 2 {
		keyNode, valueNode := injuriesNode.Content[i], injuriesNode.Content[i+1]

		var e entry
		if err := valueNode.Decode(&e); err != nil {
			return nil, fmt.Errorf("injury %q (line %d): %w", keyNode.Value, keyNode.Line, err)
		}

		injuries = append(injuries, domain.Injury{
			Key:          keyNode.Value,
			Synonyms:     e.Synonyms,
			Instructions: e.Instructions,
			Critical:     e.Critical,
		})
	}

	c, err := domain.NewCatalog(injuries)
	if err != nil {
		return nil, err
	}

	if err := l.checkOverlaps(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (l *Loader) checkOverlaps(c *domain.Catalog) error {
	overlaps := c.Overlaps()
	if len(overlaps) == 0 {
		return nil
	}

	var errs []error
	for _, o := range overlaps {
		l.logger.Warn("term shared by several injuries, earlier one wins",
			"term", o.Term,
			"winner", o.Winner,
			"shadowed", o.Shadows,
		)
		errs = append(errs, fmt.Errorf("%q in %s and %s", o.Term, o.Winner, o.Shadows))
	}

	if l.strict {
		return fmt.Errorf("%w: %w", ErrOverlap, errors.Join(errs...))
	}
	return nil
}

func lookupMapping(node *yaml.Node, key string) (*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("catalog root must be a mapping, got line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != key {
			continue
		}
		v := node.Content[i+1]
		if v.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%q must be a mapping (line %d)", key, v.Line)
		}
		return v, nil
	}
	return nil, fmt.Errorf("catalog has no %q section", key)
}
