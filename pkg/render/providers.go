package render

import (
	"strings"
	"time"

	"github.com/ormasoftchile/casetmpl/pkg/dates"
	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

// dateSuffixes in match order: the two-letter suffixes must be tried before
// their one-letter tails ("prevNC_XS" also ends in "_S").
var dateSuffixes = []string{"_XS", "_XL", "_S", "_L"}

func splitDateSuffix(key string) (base, suffix string) {
	for _, s := range dateSuffixes {
		if strings.HasSuffix(key, s) {
			return strings.TrimSuffix(key, s), s
		}
	}
	return key, ""
}

// lookupRelativeDate serves prevNC / currentNC / nextNC, each optionally
// carrying a date-style suffix.
//
// prevNC is the exception to fail-open: when the active stage is first (or
// unset), or the preceding stage has no usable date, it resolves to the empty
// string rather than declining. currentNC and nextNC decline on malformed
// stored dates and fall back to "now" on absent ones.
func (e *Engine) lookupRelativeDate(key string, snap *schema.Snapshot) (string, bool) {
	base, suffix := splitDateSuffix(key)
	switch base {
	case "prevNC":
		idx := snap.ActiveStageIndex()
		if idx <= 0 {
			return "", true
		}
		prev := &snap.Case.Stages[idx-1]
		t, ok := dates.ParseStored(prev.NextContact)
		if !ok {
			return "", true
		}
		return dates.Format(t, suffix), true

	case "currentNC", "nextNC":
		stage := snap.ActiveStage()
		if stage == nil {
			return "", false
		}
		var t time.Time
		if stage.NextContact == "" {
			t = e.now()
		} else {
			var ok bool
			t, ok = dates.ParseStored(stage.NextContact)
			if !ok {
				return "", false
			}
		}
		if base == "nextNC" {
			t = dates.AddBusinessDays(t, e.span, e.isHoliday)
		}
		return dates.Format(t, suffix), true
	}
	return "", false
}

// licenseLabels maps tier flag x suffix to the wording used in content.
var licenseLabels = map[string][2]string{
	// suffix: {Pro, Pre}
	"":    {"Pro", "Pre"},
	"_S":  {"Pro", "Pre"},
	"_L":  {"Pro", "Unified"},
	"_XL": {"Professional", "Premier"},
}

// lookupTierLabel serves Lic, Lic_S, Lic_L, Lic_XL.
func (e *Engine) lookupTierLabel(key, tier string) (string, bool) {
	if key != "Lic" && !strings.HasPrefix(key, "Lic_") {
		return "", false
	}
	labels, ok := licenseLabels[strings.TrimPrefix(key, "Lic")]
	if !ok {
		return "", false
	}
	if tier == schema.TierPro {
		return labels[0], true
	}
	return labels[1], true
}

// lookupStageLog serves stageLog, stageLog_Dot, stageLog_Dash: a
// newline-joined listing of every stage before the active one, one line per
// stage as "<prefix><MM>/<DD> <stage name>". Stages without a parseable date
// keep a literal MM/DD token. First or unset active stage resolves to empty.
func (e *Engine) lookupStageLog(key string, snap *schema.Snapshot) (string, bool) {
	var prefix string
	switch key {
	case "stageLog":
	case "stageLog_Dot":
		prefix = "・"
	case "stageLog_Dash":
		prefix = "- "
	default:
		return "", false
	}

	idx := snap.ActiveStageIndex()
	if idx <= 0 {
		return "", true
	}

	lines := make([]string, 0, idx)
	for i := 0; i < idx; i++ {
		st := &snap.Case.Stages[i]
		datePart := "MM/DD"
		if t, ok := dates.ParseStored(st.NextContact); ok {
			datePart = dates.Format(t, "_S")
		}
		lines = append(lines, prefix+datePart+" "+st.Name)
	}
	return strings.Join(lines, "\n"), true
}
