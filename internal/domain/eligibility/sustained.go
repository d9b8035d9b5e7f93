package eligibility

import (
	"slices"
	"sort"

	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

// sustained counts distinct qualifying years inside the leaf's window.
//
// Years at or before the latest unlock of a same-category award
// prerequisite never count. When the leaf or the profile requires the
// current year, the current year is the only admissible window end.
func (ev *evaluation) sustained(s requirement.Sustained, award model.AwardDefinition, end *int) LeafEvidence {
	out := LeafEvidence{Kind: s.Kind(), Progress: Progress{Required: s.Required()}}
	earliest := ev.earliestCountingYear(award)
	out.EarliestCountingYear = earliest
	restrict := s.MustIncludeCurrentYear || ev.enforce

	candidates := ev.sustainedYears(s, award)
	if earliest != nil {
		candidates = slices.DeleteFunc(candidates, func(y int) bool { return y < *earliest })
	}
	qualified := make(map[int]bool, len(candidates))
	qualifies := func(y int) bool {
		q, seen := qualified[y]
		if !seen {
			q = ev.yearQualifies(s, award, y)
			qualified[y] = q
		}
		return q
	}

	// window returns the qualifying years and lower bound for block end e.
	window := func(e int) ([]int, *int) {
		var lo *int
		if earliest != nil {
			lo = yearPtr(*earliest)
		}
		if s.TimeWindowYears > 0 {
			start := e - s.TimeWindowYears + 1
			if lo == nil || start > *lo {
				lo = yearPtr(start)
			}
		}
		var ys []int
		for _, y := range candidates {
			if y > e || (lo != nil && y < *lo) {
				continue
			}
			if qualifies(y) {
				ys = append(ys, y)
			}
		}
		sort.Ints(ys)
		return ys, lo
	}

	fill := func(e int) {
		ys, lo := window(e)
		out.Year = yearPtr(e)
		out.WindowEnd = yearPtr(e)
		out.WindowStart = lo
		out.QualifyingYears = ys
		out.Progress.Current = len(ys)
	}

	if end != nil {
		fill(*end)
		if restrict && *end != ev.current {
			out.Reason = ReasonCurrentYearRequired
			return out
		}
		out.Met = out.Progress.Current >= out.Progress.Required
		return out
	}

	ends := ev.sustainedYears(s, award)
	if restrict {
		ends = []int{ev.current}
	}
	best, bestCount := ends[0], -1
	for _, e := range ends {
		// ends run newest first, so the newest block wins ties
		if ys, _ := window(e); len(ys) > bestCount {
			best, bestCount = e, len(ys)
		}
	}
	fill(best)
	out.Met = out.Progress.Current >= out.Progress.Required
	return out
}

// sustainedYears returns the candidate years for a sustained leaf. A
// referenced award may hold in a year with no records, for example through
// unlocks alone, so leaves that can consult references also try every
// unlock year.
func (ev *evaluation) sustainedYears(s requirement.Sustained, award model.AwardDefinition) []int {
	years := ev.candidateYears()
	if s.PerYear == nil && len(references(s, award)) == 0 {
		return years
	}
	for _, y := range ev.unlocked {
		if !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// earliestCountingYear returns one past the latest unlock year among the
// award's unlocked prerequisites of the same category, or nil.
func (ev *evaluation) earliestCountingYear(award model.AwardDefinition) *int {
	var latest *int
	for _, p := range award.Prerequisites {
		if p.Kind != model.PrerequisiteAward {
			continue
		}
		def, ok := ev.engine.catalog.Award(p.AwardID)
		if !ok || def.Category != award.Category {
			continue
		}
		y, ok := ev.unlocked[p.AwardID]
		if !ok {
			continue
		}
		if latest == nil || y > *latest {
			latest = yearPtr(y)
		}
	}
	if latest == nil {
		return nil
	}
	return yearPtr(*latest + 1)
}

// yearQualifies applies the leaf's per-year test, its references, or the
// record threshold, in that order of precedence.
func (ev *evaluation) yearQualifies(s requirement.Sustained, award model.AwardDefinition, y int) bool {
	if s.PerYear != nil {
		return ev.yearTest(s.PerYear, s, award, y)
	}
	if refs := references(s, award); len(refs) > 0 {
		return ev.referencesHold(refs, y)
	}
	return ev.thresholdHolds(orDefault(s.RecordKind, model.KindSeries), s.MinValue, y)
}

func (ev *evaluation) yearTest(t requirement.YearTest, s requirement.Sustained, award model.AwardDefinition, y int) bool {
	switch t := t.(type) {
	case requirement.YearAll:
		for _, c := range t.Tests {
			if !ev.yearTest(c, s, award, y) {
				return false
			}
		}
		return true
	case requirement.YearAny:
		for _, c := range t.Tests {
			if ev.yearTest(c, s, award, y) {
				return true
			}
		}
		return false
	case requirement.YearReferences:
		refs := t.AwardIDs
		if len(refs) == 0 {
			refs = references(s, award)
		}
		return len(refs) > 0 && ev.referencesHold(refs, y)
	case requirement.YearThreshold:
		kind := orDefault(t.RecordKind, orDefault(s.RecordKind, model.KindSeries))
		minValue := t.MinValue
		if minValue == nil {
			minValue = s.MinValue
		}
		return ev.thresholdHolds(kind, minValue, y)
	case requirement.YearCustom:
		pred, ok := ev.engine.registry.Lookup(t.Name)
		return ok && pred(ev.yearContext(y, t.Params))
	default:
		return false
	}
}

// references returns the leaf's references, else the award's.
func references(s requirement.Sustained, award model.AwardDefinition) []string {
	if len(s.References) > 0 {
		return s.References
	}
	return award.References
}

// referencesHold reports whether every referenced award's requirement tree
// is satisfied for year y. Awards already on the evaluation stack fail.
func (ev *evaluation) referencesHold(ids []string, y int) bool {
	for _, id := range ids {
		if !ev.referenceHolds(id, y) {
			return false
		}
	}
	return true
}

func (ev *evaluation) referenceHolds(id string, y int) bool {
	key := refKey{awardID: id, year: y}
	if v, ok := ev.refs[key]; ok {
		return v
	}
	if ev.visiting[id] {
		return false
	}
	def, ok := ev.engine.catalog.Award(id)
	if !ok {
		return false
	}
	ev.visiting[id] = true
	met := ev.node(def.Requirements, def, &y).Met
	delete(ev.visiting, id)
	ev.refs[key] = met
	return met
}

// thresholdHolds reports whether some record of kind in year y reaches
// minValue. A nil minValue accepts any record of that kind.
func (ev *evaluation) thresholdHolds(kind string, minValue *float64, y int) bool {
	for _, r := range ev.byYear[y] {
		if r.Kind != kind {
			continue
		}
		if minValue == nil {
			return true
		}
		if v, ok := r.Value(); ok && v >= *minValue {
			return true
		}
	}
	return false
}
