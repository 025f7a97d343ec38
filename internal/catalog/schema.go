package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// catalogSchema is the JSON Schema every catalog document must satisfy.
const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "items"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "units": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "container": {"$ref": "#/definitions/unit"},
        "count": {"$ref": "#/definitions/unit"}
      }
    },
    "categories": {
      "type": "array",
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 1}
    },
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "units_per_container": {"type": "integer", "minimum": 1}
        }
      }
    }
  },
  "definitions": {
    "unit": {
      "type": "object",
      "required": ["singular", "plural"],
      "additionalProperties": false,
      "properties": {
        "singular": {"type": "string", "minLength": 1},
        "plural": {"type": "string", "minLength": 1}
      }
    }
  }
}`

var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.json", bytes.NewReader([]byte(catalogSchema))); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile("catalog.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
})

// ValidateDocument checks a decoded catalog document (YAML or JSON tree)
// against the catalog schema.
func ValidateDocument(doc any) error {
	s, err := schema()
	if err != nil {
		return err
	}
	// round-trip through JSON so the validator only sees JSON types
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal catalog: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}
