package schema

import "testing"

func twoStageCase() *Case {
	return &Case{
		ID: "C-1",
		Stages: []Stage{
			{
				ID: "s1",
				Steps: []Step{
					{Name: "triage", Fields: map[string]any{"name": "triage"}},
					{Name: "reply", Fields: map[string]any{"name": "reply"}},
				},
			},
			{
				ID:      "s2",
				LLM:     &Step{Fields: map[string]any{"prompt": "p"}},
				Confirm: &Step{Fields: map[string]any{"body": "b"}},
			},
		},
	}
}

func TestNewSnapshot_Defaults(t *testing.T) {
	c := twoStageCase()
	snap := NewSnapshot(c, nil)
	if snap.ActiveStageID != "s1" {
		t.Errorf("ActiveStageID = %q", snap.ActiveStageID)
	}
	if snap.ActiveStepRef != "step-0" {
		t.Errorf("ActiveStepRef = %q", snap.ActiveStepRef)
	}

	legacy := &Case{Stages: []Stage{{ID: "only", LLM: &Step{}}}}
	snap = NewSnapshot(legacy, nil)
	if snap.ActiveStepRef != StepRefLLM {
		t.Errorf("legacy ActiveStepRef = %q, want llm", snap.ActiveStepRef)
	}

	snap = NewSnapshot(nil, nil)
	if snap.ActiveStageID != "" {
		t.Errorf("nil case ActiveStageID = %q", snap.ActiveStageID)
	}
}

func TestActiveStageIndex(t *testing.T) {
	c := twoStageCase()
	snap := &Snapshot{Case: c, ActiveStageID: "s2"}
	if got := snap.ActiveStageIndex(); got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
	snap.ActiveStageID = "missing"
	if got := snap.ActiveStageIndex(); got != -1 {
		t.Errorf("index = %d, want -1 for unknown stage", got)
	}
}

func TestActiveStep(t *testing.T) {
	c := twoStageCase()

	tests := []struct {
		stageID  string
		stepRef  string
		wantName string
		wantNil  bool
	}{
		{"s1", "step-0", "triage", false},
		{"s1", "step-1", "reply", false},
		{"s1", "step-2", "", true},
		{"s1", "step-x", "", true},
		{"s1", "", "", true},
		{"s2", StepRefLLM, "", false},
		{"s2", StepRefConfirm, "", false},
		{"s2", StepRefReply, "", true}, // not present on this stage
	}
	for _, tt := range tests {
		snap := &Snapshot{Case: c, ActiveStageID: tt.stageID, ActiveStepRef: tt.stepRef}
		step := snap.ActiveStep()
		if tt.wantNil {
			if step != nil {
				t.Errorf("%s/%s: got %+v, want nil", tt.stageID, tt.stepRef, step)
			}
			continue
		}
		if step == nil {
			t.Errorf("%s/%s: got nil", tt.stageID, tt.stepRef)
			continue
		}
		if tt.wantName != "" && step.Name != tt.wantName {
			t.Errorf("%s/%s: name = %q, want %q", tt.stageID, tt.stepRef, step.Name, tt.wantName)
		}
	}
}
