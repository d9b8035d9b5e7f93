package eligibility

import (
	"slices"
	"sort"

	"github.com/okian/medalist/internal/domain/age"
	"github.com/okian/medalist/internal/domain/criteria"
	"github.com/okian/medalist/internal/domain/model"
)

type refKey struct {
	awardID string
	year    int
}

// evaluation is the per-call view of one profile. It indexes the activity
// log once and memoizes referenced-award checks across the awards it judges.
type evaluation struct {
	engine   *Engine
	profile  model.Profile
	byKind   map[string][]model.ActivityRecord
	byYear   map[int][]model.ActivityRecord
	years    []int // distinct activity years, ascending
	unlocked map[string]int
	current  int
	enforce  bool
	refs     map[refKey]bool
	visiting map[string]bool
}

func (e *Engine) newEvaluation(p model.Profile) *evaluation {
	ev := &evaluation{
		engine:   e,
		profile:  p,
		byKind:   make(map[string][]model.ActivityRecord),
		byYear:   make(map[int][]model.ActivityRecord),
		unlocked: make(map[string]int, len(p.UnlockedAwards)),
		current:  e.CurrentYear(),
		enforce:  e.enforceCurrentYear || p.Features.EnforceCurrentYearForSustained,
		refs:     make(map[refKey]bool),
		visiting: make(map[string]bool),
	}
	for _, r := range p.ActivityLog {
		if !r.Valid() {
			continue
		}
		y := r.EffectiveYear()
		if _, seen := ev.byYear[y]; !seen {
			ev.years = append(ev.years, y)
		}
		ev.byKind[r.Kind] = append(ev.byKind[r.Kind], r)
		ev.byYear[y] = append(ev.byYear[y], r)
	}
	sort.Ints(ev.years)
	for _, u := range p.UnlockedAwards {
		if y, ok := p.UnlockYear(u.AwardID); ok {
			ev.unlocked[u.AwardID] = y
		}
	}
	return ev
}

// candidateYears returns activity years plus the current year, newest first.
func (ev *evaluation) candidateYears() []int {
	out := slices.Clone(ev.years)
	if !slices.Contains(out, ev.current) {
		out = append(out, ev.current)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// ageAt returns the profile's age on December 31 of year.
func (ev *evaluation) ageAt(year int) *int {
	return age.At(ev.profile.DateOfBirth, year)
}

// unlockedBy lists awards unlocked on or before year, ordered by year then id.
func (ev *evaluation) unlockedBy(year int) []model.UnlockedAward {
	out := make([]model.UnlockedAward, 0, len(ev.unlocked))
	for id, y := range ev.unlocked {
		if y <= year {
			out = append(out, model.UnlockedAward{AwardID: id, Year: y})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].AwardID < out[j].AwardID
	})
	return out
}

func (ev *evaluation) yearContext(year int, params map[string]any) criteria.YearContext {
	return criteria.YearContext{
		Year:     year,
		Age:      ev.ageAt(year),
		Records:  ev.byYear[year],
		Unlocked: ev.unlockedBy(year),
		Params:   params,
	}
}
