package schema

import (
	"os"
	"strings"
	"testing"
)

func findError(errs []*ValidationError, substr string) *ValidationError {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return e
		}
	}
	return nil
}

func TestValidateCaseDomain_Valid(t *testing.T) {
	c := &Case{
		ID:   "C-1",
		Tier: TierPro,
		Stages: []Stage{
			{ID: "s1", NextContact: "2026-02-26"},
			{ID: "s2"},
		},
	}
	if errs := ValidateCaseDomain(c); len(errs) != 0 {
		t.Errorf("got %d errors, want none: %v", len(errs), errs)
	}
}

func TestValidateCaseDomain_MissingID(t *testing.T) {
	errs := ValidateCaseDomain(&Case{})
	if findError(errs, "requires an id") == nil {
		t.Errorf("missing id not reported: %v", errs)
	}
}

func TestValidateCaseDomain_InvalidTier(t *testing.T) {
	errs := ValidateCaseDomain(&Case{ID: "C-1", Tier: "Gold"})
	e := findError(errs, "invalid tier")
	if e == nil {
		t.Fatalf("invalid tier not reported: %v", errs)
	}
	if e.Severity != "error" {
		t.Errorf("severity = %q", e.Severity)
	}
}

func TestValidateCaseDomain_DuplicateStageID(t *testing.T) {
	c := &Case{ID: "C-1", Stages: []Stage{{ID: "s1"}, {ID: "s1"}}}
	e := findError(ValidateCaseDomain(c), "duplicate stage id")
	if e == nil {
		t.Fatal("duplicate stage id not reported")
	}
	if e.Path != "stages[1].id" {
		t.Errorf("path = %q", e.Path)
	}
}

func TestValidateCaseDomain_NextContactWarning(t *testing.T) {
	c := &Case{ID: "C-1", Stages: []Stage{{ID: "s1", NextContact: "soon"}}}
	e := findError(ValidateCaseDomain(c), "unparseable next-contact")
	if e == nil {
		t.Fatal("unparseable nextContact not reported")
	}
	if e.Severity != "warning" {
		t.Errorf("severity = %q, want warning", e.Severity)
	}
}

func TestValidateLibraryDomain(t *testing.T) {
	lf := &LibraryFile{Entries: []LibraryEntry{
		{ID: "greeting", Body: "hello"},
		{ID: "greeting", Body: "again"},
		{ID: "empty"},
		{ID: "badPredicate", Body: "x", RenderIf: "tier =="},
		{ID: "goodPredicate", Body: "y", RenderIf: `tier == "Pro"`},
	}}
	errs := ValidateLibraryDomain(lf)

	if findError(errs, "duplicate library entry id") == nil {
		t.Error("duplicate id not reported")
	}
	if e := findError(errs, "empty body"); e == nil || e.Severity != "warning" {
		t.Errorf("empty body warning missing or wrong severity: %v", e)
	}
	if findError(errs, "predicate does not parse") == nil {
		t.Error("unparseable renderIf not reported")
	}
	for _, e := range errs {
		if strings.Contains(e.Path, "entries[4]") {
			t.Errorf("valid entry flagged: %v", e)
		}
	}
}

func TestValidateCaseFile_FullPipeline(t *testing.T) {
	path := writeTempYAML(t, `
id: "4201180000000041"
title: Test case
stages:
  - id: s1
    nextContact: "2026-02-26"
`)
	c, errs := ValidateCaseFile(path)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if c == nil || c.ID != "4201180000000041" {
		t.Errorf("case = %+v", c)
	}
}

func TestValidateCaseFile_SemanticFailure(t *testing.T) {
	// stages must be an array per the generated schema.
	path := writeTempYAML(t, `
id: "C-1"
stages: not-a-list
`)
	_, errs := ValidateCaseFile(path)
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}
}

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := t.TempDir() + "/doc.yaml"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
