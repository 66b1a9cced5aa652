package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildProfileJSONSchema returns the JSON-Schema of a candidate profile as a
// generic map. Every key is required and no others are allowed, so a profile
// that validates always has the full key set.
func BuildProfileJSONSchema() map[string]any {
	contact := object(map[string]any{
		"emails":    stringList(),
		"phones":    stringList(),
		"addresses": stringList(),
	})
	education := object(map[string]any{
		"text": map[string]any{"type": "string"},
		"year": nullableString(`^\d{4}$`),
	})
	experience := object(map[string]any{
		"raw":     map[string]any{"type": "string"},
		"role":    nullableString(""),
		"company": nullableString(""),
		"dates":   nullableString(""),
	})
	project := object(map[string]any{
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
	})
	sections := object(map[string]any{
		"contact":         contact,
		"languages":       stringList(),
		"skills":          stringList(),
		"education":       map[string]any{"type": "array", "items": education},
		"experience":      map[string]any{"type": "array", "items": experience},
		"projects":        map[string]any{"type": "array", "items": project},
		"profile_summary": map[string]any{"type": "string", "maxLength": 1200},
	})
	return object(map[string]any{
		"emails":          stringList(),
		"phones":          stringList(),
		"urls":            stringList(),
		"name_candidates": stringList(),
		"sections":        sections,
	})
}

// BuildResultJSONSchema wraps the profile schema in the artifact envelope.
func BuildResultJSONSchema() map[string]any {
	s := object(map[string]any{
		"source_file":    map[string]any{"type": "string"},
		"extracted_with": map[string]any{"type": "string", "minLength": 1},
		"fields":         BuildProfileJSONSchema(),
	})
	// diagnostics are optional and free-form
	s["properties"].(map[string]any)["diagnostics"] = map[string]any{"type": "object"}
	return s
}

func object(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func stringList() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func nullableString(pattern string) map[string]any {
	s := map[string]any{"type": []string{"string", "null"}}
	if pattern != "" {
		s["pattern"] = pattern
	}
	return s
}

var (
	profileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) { return compile(BuildProfileJSONSchema()) })
	resultSchema  = sync.OnceValues(func() (*jsonschema.Schema, error) { return compile(BuildResultJSONSchema()) })
)

// ValidateProfile checks encoded profile JSON against the profile schema.
func ValidateProfile(data []byte) error {
	s, err := profileSchema()
	if err != nil {
		return err
	}
	return validate(s, data)
}

// ValidateResult checks an encoded artifact against the result schema.
func ValidateResult(data []byte) error {
	s, err := resultSchema()
	if err != nil {
		return err
	}
	return validate(s, data)
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	s, err := compile(schemaMap)
	if err != nil {
		return err
	}
	return validate(s, data)
}

func compile(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

func validate(s *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
