package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateCaseJSONSchema produces a JSON Schema Draft 2020-12 document from
// the Go Case struct using invopop/jsonschema. Additional properties are
// allowed throughout: case, stage, and step records carry free-form fields.
func GenerateCaseJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false
	r.AllowAdditionalProperties = true

	s := r.Reflect(&Case{})
	s.ID = "https://github.com/ormasoftchile/casetmpl/schemas/case-v0.json"
	s.Title = "Case Document v0"
	s.Description = "Schema for casetmpl case YAML documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal case schema: %w", err)
	}
	return data, nil
}

// GenerateLibraryJSONSchema produces a JSON Schema Draft 2020-12 document
// from the Go LibraryFile struct. Library entries are fully typed, so
// additional properties stay rejected.
func GenerateLibraryJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&LibraryFile{})
	s.ID = "https://github.com/ormasoftchile/casetmpl/schemas/library-v0.json"
	s.Title = "Template Library v0"
	s.Description = "Schema for casetmpl library YAML documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal library schema: %w", err)
	}
	return data, nil
}
