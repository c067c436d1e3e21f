// Package eval evaluates renderIf predicates against a context snapshot.
//
// Predicates are compiled with expr-lang rather than executed as host-language
// code: the environment carries data only, so the effective grammar is closed
// to field reads, literals, comparisons, and boolean operators. There is
// nothing callable and no I/O reachable from a predicate.
package eval

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

// EvalBool evaluates a boolean predicate against an environment.
// An empty predicate is true (no condition = always render). Any failure
// (parse error, reference that cannot be compared, non-bool result) comes
// back as an error; callers treat it as "condition false".
func EvalBool(predicate string, env map[string]any) (bool, error) {
	predicate = strings.TrimSpace(predicate)
	if predicate == "" {
		return true, nil
	}

	program, err := expr.Compile(predicate, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile predicate %q: %w", predicate, err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval predicate %q: %w", predicate, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q did not return bool (got %T: %v)", predicate, output, output)
	}
	return result, nil
}

// BuildEnv flattens a snapshot into a predicate environment. Layers merge in
// reverse provider precedence so the active step wins on key collision:
// settings extras < case < merged stage steps < active stage < active step.
// A few named keys (tier, stageIndex, stageName, SLA) are always present.
func BuildEnv(snap *schema.Snapshot) map[string]any {
	env := make(map[string]any)
	if snap == nil {
		return env
	}

	if snap.Settings != nil {
		for k, v := range snap.Settings.Extra {
			env[k] = v
		}
	}

	if c := snap.Case; c != nil {
		for k, v := range c.Fields {
			env[k] = v
		}
		env["id"] = c.ID
		env["title"] = c.Title
		env["tier"] = c.Tier
		sla := c.SLA
		if sla == "" {
			sla = "Met"
		}
		env["SLA"] = sla
	}

	if stage := snap.ActiveStage(); stage != nil {
		for k, v := range stage.MergedStepFields() {
			env[k] = v
		}
		for k, v := range stage.Fields {
			env[k] = v
		}
		env["stageName"] = stage.Name
		env["stageIndex"] = snap.ActiveStageIndex()
		if step := snap.ActiveStep(); step != nil {
			for k, v := range step.Fields {
				env[k] = v
			}
		}
	}

	return env
}
