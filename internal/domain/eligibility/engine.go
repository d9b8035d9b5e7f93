// Package eligibility decides, for a profile, which awards are unlocked,
// which are achievable and in which year, and which remain locked.
//
// Evaluation is a pure function of the catalog, the profile, the clock and
// the criteria registry. The Engine holds no mutable state and may be used
// from many goroutines at once.
package eligibility

import (
	"fmt"

	"github.com/okian/medalist/internal/domain/criteria"
	"github.com/okian/medalist/internal/domain/model"
)

// Catalog is the read-only award source the engine evaluates against.
type Catalog interface {
	Award(id string) (model.AwardDefinition, bool)
	All() []model.AwardDefinition
}

// Engine evaluates award eligibility.
type Engine struct {
	catalog            Catalog
	registry           *criteria.Registry
	clock              Clock
	enforceCurrentYear bool
}

// New creates an engine over cat.
func New(cat Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		registry: criteria.NewRegistry(),
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CurrentYear returns the clock's calendar year.
func (e *Engine) CurrentYear() int {
	return e.clock.Now().Year()
}

// EvaluateAward classifies one award for profile. Without WithEndYear the
// newest candidate year whose requirements and prerequisites both hold is
// chosen.
func (e *Engine) EvaluateAward(profile model.Profile, awardID string, opts ...EvalOption) (Result, error) {
	def, ok := e.catalog.Award(awardID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrAwardNotFound, awardID)
	}
	var o evalOptions
	for _, opt := range opts {
		opt(&o)
	}
	return e.newEvaluation(profile).award(def, o.endYear), nil
}

// EvaluateAll classifies every catalog award for profile.
func (e *Engine) EvaluateAll(profile model.Profile) Summary {
	ev := e.newEvaluation(profile)
	var s Summary
	for _, def := range e.catalog.All() {
		s.add(ev.award(def, nil))
	}
	return s
}

// EligibleYears lists, newest first, every candidate year in which the
// award would be achievable. An unlocked award reports its unlock year only.
func (e *Engine) EligibleYears(profile model.Profile, awardID string) ([]int, error) {
	def, ok := e.catalog.Award(awardID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAwardNotFound, awardID)
	}
	ev := e.newEvaluation(profile)
	if y, unlocked := ev.unlocked[def.ID]; unlocked {
		return []int{y}, nil
	}
	years := []int{}
	for _, y := range ev.candidateYears() {
		year := y
		if r := ev.award(def, &year); r.Status == StatusAchievable {
			years = append(years, y)
		}
	}
	return years, nil
}

// award runs the full pipeline for one definition.
func (ev *evaluation) award(def model.AwardDefinition, endYear *int) Result {
	res := Result{AwardID: def.ID}

	if y, ok := ev.unlocked[def.ID]; ok {
		res.Status = StatusUnlocked
		res.UnlockedYear = yearPtr(y)
		return res
	}

	if present, missing := ev.prerequisitesPresent(def); !present {
		res.Status = StatusLocked
		res.Reason = ReasonPrerequisitesNotMet
		res.Prerequisites = missing
		return res
	}

	if endYear == nil {
		return ev.scanAward(def, res)
	}

	evidence := ev.node(def.Requirements, def, endYear)
	res.Evidence = &evidence
	if !evidence.Met {
		res.Status = StatusLocked
		res.Reason = ReasonRequirementsNotMet
		return res
	}

	ok, prereqs := ev.prerequisitesAt(def, *endYear)
	res.Prerequisites = prereqs
	if !ok {
		res.Status = StatusLocked
		res.Reason = ReasonPrerequisitesNotMet
		return res
	}

	res.Status = StatusAchievable
	res.AchievableYear = yearPtr(*endYear)
	return res
}

// scanAward walks the years whose tree holds, newest first, and settles on
// the first one whose prerequisites also hold. When none does, the newest
// tree-true year is reported with its failing prerequisites.
func (ev *evaluation) scanAward(def model.AwardDefinition, res Result) Result {
	var (
		newest  *hit
		prereqs []PrerequisiteEvidence
		chosen  *hit
	)
	ev.scan(def, func(h hit) bool {
		ok, detail := ev.prerequisitesAt(def, h.year)
		if newest == nil {
			newest = &h
			prereqs = detail
		}
		if ok {
			chosen = &h
			prereqs = detail
			return false
		}
		return true
	})

	switch {
	case chosen != nil:
		res.Evidence = &chosen.evidence
		res.Prerequisites = prereqs
		res.Status = StatusAchievable
		res.AchievableYear = yearPtr(chosen.year)
	case newest != nil:
		res.Evidence = &newest.evidence
		res.Prerequisites = prereqs
		res.Status = StatusLocked
		res.Reason = ReasonPrerequisitesNotMet
	default:
		evidence := ev.node(def.Requirements, def, nil)
		// best-window evidence is for display only
		evidence.Met = false
		res.Evidence = &evidence
		res.Status = StatusLocked
		res.Reason = ReasonRequirementsNotMet
	}
	return res
}
