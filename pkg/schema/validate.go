package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/ormasoftchile/casetmpl/pkg/dates"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "stages[2].id")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// ValidateCaseFile performs the full 3-phase validation pipeline on a case file.
// Phase 1: Structural (YAML decode into typed records)
// Phase 2: Semantic (JSON Schema validation of the raw document)
// Phase 3: Domain (custom Go rules)
func ValidateCaseFile(path string) (*Case, []*ValidationError) {
	var allErrors []*ValidationError

	c, err := LoadCaseFile(path)
	if err != nil {
		allErrors = append(allErrors, &ValidationError{
			Phase:    "structural",
			Message:  err.Error(),
			Severity: "error",
		})
		return nil, allErrors
	}

	schemaJSON, genErr := GenerateCaseJSONSchema()
	if genErr != nil {
		allErrors = append(allErrors, &ValidationError{
			Phase:    "semantic",
			Message:  fmt.Sprintf("generate schema: %v", genErr),
			Severity: "error",
		})
	} else {
		allErrors = append(allErrors, validateSemanticFile(path, "case-v0.json", schemaJSON)...)
	}

	allErrors = append(allErrors, ValidateCaseDomain(c)...)

	if len(allErrors) > 0 {
		return c, allErrors
	}
	return c, nil
}

// ValidateLibraryFile performs the full 3-phase validation pipeline on a
// library file.
func ValidateLibraryFile(path string) (*LibraryFile, []*ValidationError) {
	var allErrors []*ValidationError

	lf, err := LoadLibraryFile(path)
	if err != nil {
		allErrors = append(allErrors, &ValidationError{
			Phase:    "structural",
			Message:  err.Error(),
			Severity: "error",
		})
		return nil, allErrors
	}

	schemaJSON, genErr := GenerateLibraryJSONSchema()
	if genErr != nil {
		allErrors = append(allErrors, &ValidationError{
			Phase:    "semantic",
			Message:  fmt.Sprintf("generate schema: %v", genErr),
			Severity: "error",
		})
	} else {
		allErrors = append(allErrors, validateSemanticFile(path, "library-v0.json", schemaJSON)...)
	}

	allErrors = append(allErrors, ValidateLibraryDomain(lf)...)

	if len(allErrors) > 0 {
		return lf, allErrors
	}
	return lf, nil
}

// validateSemanticFile validates the raw YAML document against a generated
// JSON Schema. The raw document is validated (not the re-marshalled Go
// structs) so free-form fields survive the round trip.
func validateSemanticFile(path, schemaName string, schemaJSON []byte) []*ValidationError {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("read document: %v", err),
			Severity: "error",
		}}
	}

	var yamlDoc any
	if err := yaml.Unmarshal(raw, &yamlDoc); err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("decode document: %v", err),
			Severity: "error",
		}}
	}

	// YAML -> JSON so the schema validator sees JSON-typed values.
	data, err := json.Marshal(yamlDoc)
	if err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("convert document to JSON: %v", err),
			Severity: "error",
		}}
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("unmarshal schema: %v", err),
			Severity: "error",
		}}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaName, schemaDoc); err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("add schema resource: %v", err),
			Severity: "error",
		}}
	}

	sch, err := c.Compile(schemaName)
	if err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("compile schema: %v", err),
			Severity: "error",
		}}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("unmarshal document: %v", err),
			Severity: "error",
		}}
	}

	if err := sch.Validate(doc); err != nil {
		var errs []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				instancePath := strings.Join(cause.InstanceLocation, "/")
				errs = append(errs, &ValidationError{
					Phase:    "semantic",
					Path:     instancePath,
					Message:  fmt.Sprintf("%v", cause.ErrorKind),
					Severity: "error",
				})
			}
		} else {
			errs = append(errs, &ValidationError{
				Phase:    "semantic",
				Message:  err.Error(),
				Severity: "error",
			})
		}
		return errs
	}
	return nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// ValidateCaseDomain performs Phase 3 domain-level validation of a case.
// Returns a slice of errors; empty means valid.
func ValidateCaseDomain(c *Case) []*ValidationError {
	var errs []*ValidationError

	if c.ID == "" {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     "id",
			Message:  "case requires an id",
			Severity: "error",
		})
	}

	if c.Tier != "" && c.Tier != TierPro && c.Tier != TierPre {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     "tier",
			Message:  fmt.Sprintf("invalid tier %q: must be %q or %q", c.Tier, TierPro, TierPre),
			Severity: "error",
		})
	}

	seen := make(map[string]bool)
	for i := range c.Stages {
		st := &c.Stages[i]
		if st.ID == "" {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     fmt.Sprintf("stages[%d].id", i),
				Message:  "stage requires an id",
				Severity: "error",
			})
			continue
		}
		if seen[st.ID] {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     fmt.Sprintf("stages[%d].id", i),
				Message:  fmt.Sprintf("duplicate stage id %q", st.ID),
				Severity: "error",
			})
		}
		seen[st.ID] = true

		if st.NextContact != "" {
			if _, ok := dates.ParseStored(st.NextContact); !ok {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     fmt.Sprintf("stages[%d].nextContact", i),
					Message:  fmt.Sprintf("unparseable next-contact date %q: relative-date placeholders will decline", st.NextContact),
					Severity: "warning",
				})
			}
		}
	}

	return errs
}

// ValidateLibraryDomain performs Phase 3 domain-level validation of a
// library file.
func ValidateLibraryDomain(lf *LibraryFile) []*ValidationError {
	var errs []*ValidationError

	seen := make(map[string]bool)
	for i, entry := range lf.Entries {
		if entry.ID == "" {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     fmt.Sprintf("entries[%d].id", i),
				Message:  "library entry requires an id",
				Severity: "error",
			})
			continue
		}
		if seen[entry.ID] {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     fmt.Sprintf("entries[%d].id", i),
				Message:  fmt.Sprintf("duplicate library entry id %q", entry.ID),
				Severity: "error",
			})
		}
		seen[entry.ID] = true

		if entry.Body == "" {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     fmt.Sprintf("entries[%d].body", i),
				Message:  fmt.Sprintf("entry %q has an empty body", entry.ID),
				Severity: "warning",
			})
		}

		// Parse-only check: at render time a failing predicate just gates
		// the entry off, but the author probably wants to know now.
		if entry.RenderIf != "" {
			if _, err := expr.Compile(entry.RenderIf); err != nil {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     fmt.Sprintf("entries[%d].renderIf", i),
					Message:  fmt.Sprintf("predicate does not parse: %v", err),
					Severity: "warning",
				})
			}
		}
	}

	return errs
}
