package render

import (
	"strconv"

	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

// lookupActiveStep is a direct field lookup on the active step's open-ended
// field mapping.
func (e *Engine) lookupActiveStep(key string, snap *schema.Snapshot) (string, bool) {
	step := snap.ActiveStep()
	if step == nil {
		return "", false
	}
	return stringify(step.Fields[key])
}

// lookupActiveStage is a direct field lookup on the active stage record,
// falling back to the merged view of all ordered steps' fields.
func (e *Engine) lookupActiveStage(key string, snap *schema.Snapshot) (string, bool) {
	stage := snap.ActiveStage()
	if stage == nil {
		return "", false
	}
	switch key {
	case "id":
		return stage.ID, true
	case "name":
		return stage.Name, true
	case "nextContact":
		return stage.NextContact, true
	}
	if v, ok := stringify(stage.Fields[key]); ok {
		return v, true
	}
	if len(stage.Steps) > 0 {
		if v, ok := stringify(stage.MergedStepFields()[key]); ok {
			return v, true
		}
	}
	return "", false
}

// lookupCase is a direct field lookup on the case record. The SLA key reads
// as the literal "Met" when the stored field is absent or empty.
func (e *Engine) lookupCase(key string, snap *schema.Snapshot, tier string) (string, bool) {
	c := snap.Case
	if c == nil {
		return "", false
	}
	switch key {
	case "id":
		return c.ID, true
	case "title":
		return c.Title, true
	case "tier":
		return tier, true
	case "SLA":
		if c.SLA == "" {
			return "Met", true
		}
		return c.SLA, true
	}
	return stringify(c.Fields[key])
}

// lookupSettingsRaw is the last resort: a direct lookup on the raw settings
// mapping for keys no other provider covers.
func (e *Engine) lookupSettingsRaw(key string, snap *schema.Snapshot) (string, bool) {
	if snap.Settings == nil {
		return "", false
	}
	return stringify(snap.Settings.Extra[key])
}

// stringify converts a free-form field value to replacement text. Only
// scalars substitute; anything callable or composite is treated as absent.
func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	}
	return "", false
}
