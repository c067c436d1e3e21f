package schema

import "strings"

// Tier flag values. A case is classified once, at load time, and the flag is
// treated as stable data on the record afterwards.
const (
	TierPro = "Pro"
	TierPre = "Pre"
)

// DefaultTierScanFields names the free-form fields scanned when classifying
// a case. The scan scope is configurable because the upstream data does not
// pin down which service-name variants a mirrored case may carry.
var DefaultTierScanFields = []string{"servName"}

// tierMarkers are matched case-insensitively as substrings.
var tierMarkers = []string{"professional", "office technical support"}

// ComputeTier classifies a case as Pro or Pre by scanning the named fields
// at case, stage, and step level for a professional-support service name.
func ComputeTier(c *Case, scanFields []string) string {
	if c == nil {
		return TierPre
	}
	if len(scanFields) == 0 {
		scanFields = DefaultTierScanFields
	}
	for _, field := range scanFields {
		if matchesPro(c.Field(field)) {
			return TierPro
		}
		for i := range c.Stages {
			st := &c.Stages[i]
			if matchesPro(st.Fields[field]) {
				return TierPro
			}
			for j := range st.Steps {
				if matchesPro(st.Steps[j].Fields[field]) {
					return TierPro
				}
			}
			for _, legacy := range []*Step{st.LLM, st.Confirm, st.Reply} {
				if legacy != nil && matchesPro(legacy.Fields[field]) {
					return TierPro
				}
			}
		}
	}
	return TierPre
}

// EnsureTier computes and stores the tier flag if the case does not already
// carry one. Called once at load time; the flag is never recomputed
// mid-session.
func EnsureTier(c *Case, scanFields []string) {
	if c != nil && c.Tier == "" {
		c.Tier = ComputeTier(c, scanFields)
	}
}

func matchesPro(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.ToLower(s)
	for _, marker := range tierMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
