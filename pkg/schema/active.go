package schema

import (
	"strconv"
	"strings"
)

// Legacy active-step references. Stages in the legacy shape address their
// fixed built-in steps by name instead of by index.
const (
	StepRefLLM     = "llm"
	StepRefConfirm = "confirm"
	StepRefReply   = "reply"
)

// StepRefPrefix prefixes index-based step references ("step-0", "step-1", ...).
const StepRefPrefix = "step-"

// Snapshot is the immutable bundle of case, settings, and active selection
// available to one resolution pass. Callers must not mutate it (or the case
// and settings records it points at) while a resolution call is in flight.
type Snapshot struct {
	Case     *Case
	Settings *Settings

	ActiveStageID string
	ActiveStepRef string
}

// NewSnapshot bundles a case and settings with the default active selection:
// the first stage, and within it "step-0" for ordered stages or the llm
// built-in for legacy stages.
func NewSnapshot(c *Case, settings *Settings) *Snapshot {
	snap := &Snapshot{Case: c, Settings: settings}
	if c != nil && len(c.Stages) > 0 {
		snap.ActiveStageID = c.Stages[0].ID
		if len(c.Stages[0].Steps) > 0 {
			snap.ActiveStepRef = StepRefPrefix + "0"
		} else {
			snap.ActiveStepRef = StepRefLLM
		}
	}
	return snap
}

// ActiveStageIndex returns the index of the active stage in the case's stage
// sequence, or -1 when there is no active stage.
func (s *Snapshot) ActiveStageIndex() int {
	if s == nil || s.Case == nil || s.ActiveStageID == "" {
		return -1
	}
	for i := range s.Case.Stages {
		if s.Case.Stages[i].ID == s.ActiveStageID {
			return i
		}
	}
	return -1
}

// ActiveStage returns the active stage record, or nil.
func (s *Snapshot) ActiveStage() *Stage {
	i := s.ActiveStageIndex()
	if i < 0 {
		return nil
	}
	return &s.Case.Stages[i]
}

// ActiveStep resolves the active step reference within the active stage.
// Returns nil when the stage has no steps or the reference is out of range.
func (s *Snapshot) ActiveStep() *Step {
	stage := s.ActiveStage()
	if stage == nil || s.ActiveStepRef == "" {
		return nil
	}
	switch s.ActiveStepRef {
	case StepRefLLM:
		return stage.LLM
	case StepRefConfirm:
		return stage.Confirm
	case StepRefReply:
		return stage.Reply
	}
	if idx, ok := strings.CutPrefix(s.ActiveStepRef, StepRefPrefix); ok {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 || n >= len(stage.Steps) {
			return nil
		}
		return &stage.Steps[n]
	}
	return nil
}
