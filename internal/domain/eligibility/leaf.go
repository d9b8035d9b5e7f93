package eligibility

import (
	"slices"
	"sort"

	"github.com/okian/medalist/internal/domain/age"
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

// counter counts passing items inside the inclusive block [start, end].
// years lists the years holding candidate items and bounds best-window search.
type counter struct {
	years []int
	count func(start, end int) int
}

// counted applies the shared fixed-year and best-window logic of the
// record-counting leaves.
func (ev *evaluation) counted(kind string, w requirement.Window, c counter, end *int) LeafEvidence {
	required, span := w.Required(), w.Years()
	out := LeafEvidence{Kind: kind, Progress: Progress{Required: required}}

	if end != nil {
		start := *end - span + 1
		n := c.count(start, *end)
		out.Met = n >= required
		out.Progress.Current = n
		out.Year = yearPtr(*end)
		out.WindowStart = yearPtr(start)
		out.WindowEnd = yearPtr(*end)
		return out
	}

	for _, e := range c.years {
		start := e - span + 1
		n := c.count(start, e)
		// later blocks win ties
		if n > 0 && n >= out.Progress.Current {
			out.Progress.Current = n
			out.Year = yearPtr(e)
			out.WindowStart = yearPtr(start)
			out.WindowEnd = yearPtr(e)
		}
	}
	out.Met = out.Progress.Current >= required
	return out
}

// thresholdCounter counts records of kind that clear their group's
// threshold. Thresholds are resolved for the age reached at the block end.
func (ev *evaluation) thresholdCounter(kind string, base requirement.Thresholds, cats []age.Category[requirement.Thresholds]) counter {
	recs := ev.byKind[kind]
	return counter{
		years: recordYears(recs),
		count: func(start, end int) int {
			th := age.Resolve(base, cats, ev.ageAt(end))
			n := 0
			for _, r := range recs {
				if y := r.EffectiveYear(); y < start || y > end {
					continue
				}
				if t, ok := th.For(r.Group); ok && passes(t, r) {
					n++
				}
			}
			return n
		},
	}
}

// passes reports whether r clears every constraint set on t.
func passes(t requirement.Threshold, r model.ActivityRecord) bool {
	if t.MinPoints != nil {
		v, ok := r.Value()
		if !ok || v < *t.MinPoints {
			return false
		}
	}
	if t.MinHits != nil && (r.Hits == nil || *r.Hits < *t.MinHits) {
		return false
	}
	if t.MaxSeconds != nil && (r.DurationSeconds == nil || *r.DurationSeconds > *t.MaxSeconds) {
		return false
	}
	if t.MinScore != nil && (r.Score == nil || *r.Score < *t.MinScore) {
		return false
	}
	return true
}

func (ev *evaluation) medalCounter(s requirement.MedalCount) counter {
	var recs []model.ActivityRecord
	for _, r := range ev.byKind[orDefault(s.RecordKind, model.KindMedal)] {
		if matches(s.Categories, r.Category) {
			recs = append(recs, r)
		}
	}
	return counter{
		years: recordYears(recs),
		count: func(start, end int) int {
			n := 0
			for _, r := range recs {
				if y := r.EffectiveYear(); y >= start && y <= end {
					n++
				}
			}
			return n
		},
	}
}

// awardCounter counts unlocked awards of matching category and tier by
// their unlock year.
func (ev *evaluation) awardCounter(s requirement.AwardCount) counter {
	var unlockYears []int
	for id, y := range ev.unlocked {
		def, ok := ev.engine.catalog.Award(id)
		if !ok || !matches(s.Categories, def.Category) || !matches(s.Tiers, def.Tier) {
			continue
		}
		unlockYears = append(unlockYears, y)
	}
	sort.Ints(unlockYears)
	return counter{
		years: distinct(unlockYears),
		count: func(start, end int) int {
			n := 0
			for _, y := range unlockYears {
				if y >= start && y <= end {
					n++
				}
			}
			return n
		},
	}
}

// custom evaluates a registered predicate. In best-window mode the newest
// candidate year that satisfies it is reported.
func (ev *evaluation) custom(s requirement.Custom, end *int) LeafEvidence {
	out := LeafEvidence{Kind: s.Kind(), Name: s.Name, Progress: Progress{Required: 1}}
	pred, ok := ev.engine.registry.Lookup(s.Name)
	if !ok {
		out.Reason = ReasonUnknownCriterion
		return out
	}
	years := ev.candidateYears()
	if end != nil {
		years = []int{*end}
	}
	for _, y := range years {
		if pred(ev.yearContext(y, s.Params)) {
			out.Met = true
			out.Progress.Current = 1
			out.Year = yearPtr(y)
			return out
		}
	}
	if end != nil {
		out.Year = yearPtr(*end)
	}
	return out
}

// matches reports whether v is in set; an empty set matches anything.
func matches(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

func recordYears(recs []model.ActivityRecord) []int {
	ys := make([]int, 0, len(recs))
	for _, r := range recs {
		ys = append(ys, r.EffectiveYear())
	}
	sort.Ints(ys)
	return distinct(ys)
}

// distinct drops adjacent duplicates from a sorted slice.
func distinct(sorted []int) []int {
	return slices.Compact(sorted)
}
