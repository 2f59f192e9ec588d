package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadSchema compiles a JSON schema for mark payloads from the scoring
// configuration: one required numeric property per criterion, bounded by its
// value range, with no extra properties allowed.
func (c Config) PayloadSchema() (*jsonschema.Schema, error) {
	properties := map[string]interface{}{}
	required := make([]string, 0, len(c.Criteria))
	for _, criterion := range c.Criteria {
		properties[criterion.ID] = map[string]interface{}{
			"type":    "number",
			"minimum": 0,
			"maximum": criterion.Max,
		}
		required = append(required, criterion.ID)
	}

	document := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}

	raw, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("failed to build marks schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("marks.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to register marks schema: %w", err)
	}
	return compiler.Compile("marks.json")
}

// ValidatePayload checks a raw mark payload against the compiled schema.
func ValidatePayload(schema *jsonschema.Schema, raw []byte) error {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("mark payload is not valid JSON: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("mark payload does not match schema: %w", err)
	}
	return nil
}
