// Package llm holds the prompt and reply handling shared by the injury
// classifiers.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"first-aid/internal/domain"
)

// NoInjury is the key the model answers with when nothing matches.
const NoInjury = "none"

// SystemPrompt lists the catalog keys and asks for a single JSON answer.
func SystemPrompt(catalog *domain.Catalog) string {
	var b strings.Builder
	for _, injury := range catalog.Injuries() {
		fmt.Fprintf(&b, "- %s", injury.Key)
		if len(injury.Synonyms) > 0 {
			fmt.Fprintf(&b, " (also: %s)", strings.Join(injury.Synonyms, ", "))
		}
		b.WriteString("\n")
	}

	return fmt.Sprintf(`You classify what a person says to a first-aid assistant.

Known injuries:
%s
IMPORTANT:
- Answer with the EXACT injury key from the list
- If the person does not describe one of these injuries, answer "%s"
- Do not give medical advice

Respond ONLY with valid JSON (no markdown, no backticks):
{"injury": "key or %s", "confidence": 0.95}`, b.String(), NoInjury, NoInjury)
}

type classification struct {
	Injury     string  `json:"injury"`
	Confidence float64 `json:"confidence"`
}

// ParseReply extracts the injury key from a model reply. An empty key means
// no injury.
func ParseReply(reply string) (string, error) {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var c classification
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return "", fmt.Errorf("parsing classification JSON (%s): %w", text, err)
	}

	key := strings.ToLower(strings.TrimSpace(c.Injury))
	if key == NoInjury {
		return "", nil
	}
	return key, nil
}
