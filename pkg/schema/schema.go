// Package schema defines the Go struct types for the case-tracking context
// snapshot (case, stages, steps, operator settings, and library entries)
// and provides YAML parsing for the document files that carry them.
//
// Case, stage, and step records are open-ended: beyond a small typed core,
// they accept arbitrary extra fields, kept in an explicit Fields side map so
// template providers can look up "any property by name" without reflection.
package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Case is a mirrored external case with its ordered stage sequence.
type Case struct {
	ID     string  `json:"id" jsonschema:"required"`
	Title  string  `json:"title,omitempty"`
	SLA    string  `json:"SLA,omitempty"`
	Tier   string  `json:"tier,omitempty" jsonschema:"enum=Pro,enum=Pre,enum="`
	Stages []Stage `json:"stages,omitempty"`

	// Fields holds the free-form properties mirrored from the external
	// case record (servName, severity, custStatement, ...).
	Fields map[string]any `json:"-"`
}

// Field returns a case property by name, typed core first.
func (c *Case) Field(key string) any {
	switch key {
	case "id":
		return c.ID
	case "title":
		return c.Title
	case "SLA":
		return c.SLA
	case "tier":
		return c.Tier
	}
	return c.Fields[key]
}

type caseDoc struct {
	ID     string  `yaml:"id"`
	Title  string  `yaml:"title"`
	SLA    string  `yaml:"SLA"`
	Tier   string  `yaml:"tier"`
	Stages []Stage `yaml:"stages"`
}

// UnmarshalYAML decodes the typed core and sweeps every remaining key into
// the Fields side map.
func (c *Case) UnmarshalYAML(node *yaml.Node) error {
	var doc caseDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	for _, k := range []string{"id", "title", "SLA", "tier", "stages"} {
		delete(raw, k)
	}
	if len(raw) == 0 {
		raw = nil
	}
	*c = Case{ID: doc.ID, Title: doc.Title, SLA: doc.SLA, Tier: doc.Tier, Stages: doc.Stages, Fields: raw}
	return nil
}

// Stage is one ordered unit of case work. A stage carries either an ordered
// Steps sequence or the legacy fixed triple (llm / confirm / reply).
type Stage struct {
	ID          string `json:"id" jsonschema:"required"`
	Name        string `json:"name,omitempty"`
	NextContact string `json:"nextContact,omitempty"`
	Steps       []Step `json:"steps,omitempty"`

	// Legacy shape: fixed built-in steps addressed by name.
	LLM     *Step `json:"llm,omitempty"`
	Confirm *Step `json:"confirm,omitempty"`
	Reply   *Step `json:"reply,omitempty"`

	Fields map[string]any `json:"-"`
}

// Field returns a stage property by name, typed core first.
func (s *Stage) Field(key string) any {
	switch key {
	case "id":
		return s.ID
	case "name":
		return s.Name
	case "nextContact":
		return s.NextContact
	}
	return s.Fields[key]
}

// MergedStepFields flattens every ordered step's fields into one map.
// Later steps override earlier ones on key collision.
func (s *Stage) MergedStepFields() map[string]any {
	if len(s.Steps) == 0 {
		return nil
	}
	merged := make(map[string]any)
	for i := range s.Steps {
		for k, v := range s.Steps[i].Fields {
			merged[k] = v
		}
	}
	return merged
}

type stageDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	NextContact string `yaml:"nextContact"`
	Steps       []Step `yaml:"steps"`
	LLM         *Step  `yaml:"llm"`
	Confirm     *Step  `yaml:"confirm"`
	Reply       *Step  `yaml:"reply"`
}

func (s *Stage) UnmarshalYAML(node *yaml.Node) error {
	var doc stageDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	for _, k := range []string{"id", "name", "nextContact", "steps", "llm", "confirm", "reply"} {
		delete(raw, k)
	}
	if len(raw) == 0 {
		raw = nil
	}
	*s = Stage{
		ID: doc.ID, Name: doc.Name, NextContact: doc.NextContact,
		Steps: doc.Steps, LLM: doc.LLM, Confirm: doc.Confirm, Reply: doc.Reply,
		Fields: raw,
	}
	return nil
}

// Step has no fixed schema beyond an optional name: it is an open mapping of
// named text fields of mixed kinds (plain text, HTML fragments, an "html"
// field holding the rendered step body).
type Step struct {
	Name   string         `json:"name,omitempty"`
	Fields map[string]any `json:"-"`
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	st := Step{Fields: raw}
	if name, ok := raw["name"].(string); ok {
		st.Name = name
	}
	*s = st
	return nil
}

// Operator identifies the engineer working the case.
type Operator struct {
	NameWithKana string `yaml:"nameWithKana" json:"nameWithKana,omitempty"`
	Kana         string `yaml:"kana" json:"kana,omitempty"`
	FamilyName   string `yaml:"familyName" json:"familyName,omitempty"`
	Email        string `yaml:"email" json:"email,omitempty"`
	Title        string `yaml:"title" json:"title,omitempty"`
	Extension    string `yaml:"extension" json:"extension,omitempty"`
}

// KanaName returns the operator's kana name, falling back to the combined
// name-with-kana form when no separate kana field is set.
func (o Operator) KanaName() string {
	if o.Kana != "" {
		return o.Kana
	}
	return o.NameWithKana
}

// CoEditor is one of the operator's co-editors (leads, backup engineers).
type CoEditor struct {
	Title      string `yaml:"title" json:"title,omitempty"`
	Kana       string `yaml:"kana" json:"kana,omitempty"`
	FamilyName string `yaml:"familyName" json:"familyName,omitempty"`
	Extension  string `yaml:"extension" json:"extension,omitempty"`
	Email      string `yaml:"email" json:"email,omitempty"`
}

// MailList groups the outgoing mail addresses.
type MailList struct {
	To    []string `yaml:"to" json:"to,omitempty"`
	Cc    []string `yaml:"cc" json:"cc,omitempty"`
	CcDfM []string `yaml:"ccDfM" json:"ccDfM,omitempty"`
}

// Settings holds operator identity, co-editors, and mail grouping, plus any
// extra keys the settings document carries (served by the fallback provider).
type Settings struct {
	Operator  Operator   `json:"operator,omitempty"`
	CoEditors []CoEditor `json:"coEditors,omitempty"`
	Mail      MailList   `json:"mail,omitempty"`

	Extra map[string]any `json:"-"`
}

// CoEditorByEmail finds a co-editor by exact email match, or nil.
func (s *Settings) CoEditorByEmail(email string) *CoEditor {
	if email == "" {
		return nil
	}
	for i := range s.CoEditors {
		if s.CoEditors[i].Email == email {
			return &s.CoEditors[i]
		}
	}
	return nil
}

type settingsDoc struct {
	Operator  Operator   `yaml:"operator"`
	CoEditors []CoEditor `yaml:"coEditors"`
	Mail      MailList   `yaml:"mail"`
}

func (s *Settings) UnmarshalYAML(node *yaml.Node) error {
	var doc settingsDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	for _, k := range []string{"operator", "coEditors", "mail"} {
		delete(raw, k)
	}
	if len(raw) == 0 {
		raw = nil
	}
	*s = Settings{Operator: doc.Operator, CoEditors: doc.CoEditors, Mail: doc.Mail, Extra: raw}
	return nil
}

// LibraryEntry is a reusable, possibly conditional, named block of template
// text (a.k.a. system template). The ID doubles as the placeholder name.
type LibraryEntry struct {
	ID       string `yaml:"id" json:"id" jsonschema:"required"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	RenderIf string `yaml:"renderIf,omitempty" json:"renderIf,omitempty"`
	Body     string `yaml:"body" json:"body" jsonschema:"required"`
}

// LibraryFile is the on-disk document shape for a set of library entries.
type LibraryFile struct {
	Entries []LibraryEntry `yaml:"entries" json:"entries" jsonschema:"required"`
}

// Library indexes entries by ID for placeholder lookup.
type Library map[string]LibraryEntry

// NewLibrary builds the ID index, rejecting duplicate entry IDs.
func NewLibrary(entries []LibraryEntry) (Library, error) {
	lib := make(Library, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("library entry with empty id")
		}
		if _, exists := lib[e.ID]; exists {
			return nil, fmt.Errorf("duplicate library entry id %q", e.ID)
		}
		lib[e.ID] = e
	}
	return lib, nil
}

// LoadCaseFile reads and parses a case YAML file.
func LoadCaseFile(path string) (*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open case: %w", err)
	}
	defer f.Close()
	return LoadCase(f)
}

// LoadCase parses a case document. Unknown fields are not rejected; they
// land in the Fields side maps.
func LoadCase(r io.Reader) (*Case, error) {
	var c Case
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	return &c, nil
}

// LoadSettingsFile reads and parses a settings YAML file.
func LoadSettingsFile(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()
	var s Settings
	if err := yaml.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

// LoadLibraryFile reads and parses a library YAML file with strict
// unknown-field rejection (library entries are fully typed).
func LoadLibraryFile(path string) (*LibraryFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer f.Close()
	return LoadLibrary(f)
}

// LoadLibrary parses a library document from an io.Reader.
func LoadLibrary(r io.Reader) (*LibraryFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var lf LibraryFile
	if err := dec.Decode(&lf); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	return &lf, nil
}
