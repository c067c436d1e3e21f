// Package render implements the template variable resolution engine: it
// expands {{key}} placeholders in free-form content against an immutable
// context snapshot through an ordered provider chain.
//
// The engine is pure: no storage, no I/O, no ambient state. Every external
// fact (library entries, clock, holiday calendar) is injected at
// construction, so concurrent Resolve calls over unshared snapshots are safe.
package render

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ormasoftchile/casetmpl/pkg/dates"
	"github.com/ormasoftchile/casetmpl/pkg/eval"
	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

// MaxDepth limits recursive re-resolution of library-entry bodies. Once the
// cap is reached, remaining placeholders are left verbatim rather than
// treated as an error.
const MaxDepth = 5

// DefaultBusinessDaySpan is the number of business days {{nextNC}} adds to
// the active stage's next-contact date.
const DefaultBusinessDaySpan = 3

// placeholderRe matches non-greedy {{...}} tokens.
var placeholderRe = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Engine resolves placeholders against context snapshots.
type Engine struct {
	lib       schema.Library
	now       func() time.Time
	isHoliday dates.HolidayFunc
	span      int
	tierScan  []string
	log       *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow pins the clock used when a stage has no next-contact date.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHolidayFunc sets the holiday calendar consulted by business-day
// arithmetic. Nil means no holidays.
func WithHolidayFunc(fn dates.HolidayFunc) Option {
	return func(e *Engine) { e.isHoliday = fn }
}

// WithBusinessDaySpan overrides the {{nextNC}} business-day span.
func WithBusinessDaySpan(n int) Option {
	return func(e *Engine) { e.span = n }
}

// WithTierScanFields overrides the field names scanned when a case carries
// no precomputed tier flag.
func WithTierScanFields(fields []string) Option {
	return func(e *Engine) { e.tierScan = fields }
}

// WithLogger sets the diagnostics logger. Defaults to a no-op logger; the
// engine never surfaces failures to its output text.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an engine over a library-entry set.
func New(lib schema.Library, opts ...Option) *Engine {
	e := &Engine{
		lib:  lib,
		now:  time.Now,
		span: DefaultBusinessDaySpan,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve expands every {{key}} placeholder in text against the snapshot.
// Keys nothing resolves stay in place verbatim (fail open), so a draft keeps
// its uninstantiated variables visible. Resolve never fails: malformed input
// degrades to unresolved placeholders.
func (e *Engine) Resolve(text string, snap *schema.Snapshot) string {
	return e.resolve(text, snap, e.tier(snap), 0)
}

func (e *Engine) resolve(text string, snap *schema.Snapshot, tier string, depth int) string {
	if text == "" {
		return ""
	}
	if depth >= MaxDepth {
		e.log.Debug("recursion depth cap reached, leaving placeholders verbatim",
			zap.Int("depth", depth))
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := e.lookup(key, snap, tier, depth); ok {
			return val
		}
		return match
	})
}

// lookup queries the provider chain in fixed precedence order. The first
// provider to return a defined value wins.
func (e *Engine) lookup(key string, snap *schema.Snapshot, tier string, depth int) (string, bool) {
	if key == "" || snap == nil {
		return "", false
	}
	if v, ok := e.lookupLibrary(key, snap, tier, depth); ok {
		return v, true
	}
	if v, ok := e.lookupRelativeDate(key, snap); ok {
		return v, true
	}
	if v, ok := e.lookupTierLabel(key, tier); ok {
		return v, true
	}
	if v, ok := e.lookupStageLog(key, snap); ok {
		return v, true
	}
	if v, ok := e.lookupSettingsDerived(key, snap); ok {
		return v, true
	}
	if v, ok := e.lookupActiveStep(key, snap); ok {
		return v, true
	}
	if v, ok := e.lookupActiveStage(key, snap); ok {
		return v, true
	}
	if v, ok := e.lookupCase(key, snap, tier); ok {
		return v, true
	}
	if v, ok := e.lookupSettingsRaw(key, snap); ok {
		return v, true
	}
	return "", false
}

// lookupLibrary matches the key against a library entry ID. A renderIf
// predicate gates the entry: false or failing predicates consume the
// placeholder into the empty string (not fail-open), a passing
// one substitutes the recursively resolved body.
func (e *Engine) lookupLibrary(key string, snap *schema.Snapshot, tier string, depth int) (string, bool) {
	entry, ok := e.lib[key]
	if !ok {
		return "", false
	}
	if entry.RenderIf != "" {
		env := eval.BuildEnv(snap)
		env["tier"] = tier
		render, err := eval.EvalBool(entry.RenderIf, env)
		if err != nil {
			e.log.Warn("renderIf evaluation failed, treating as false",
				zap.String("entry", entry.ID), zap.Error(err))
			return "", true
		}
		if !render {
			return "", true
		}
	}
	return e.resolve(entry.Body, snap, tier, depth+1), true
}

// tier returns the case's tier flag, classifying on the fly when the loader
// did not store one. Called once per Resolve pass; the snapshot is never
// mutated.
func (e *Engine) tier(snap *schema.Snapshot) string {
	if snap == nil || snap.Case == nil {
		return schema.TierPre
	}
	if snap.Case.Tier != "" {
		return snap.Case.Tier
	}
	return schema.ComputeTier(snap.Case, e.tierScan)
}
