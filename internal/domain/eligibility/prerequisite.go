package eligibility

import (
	"github.com/okian/medalist/internal/domain/model"
)

// Prerequisite evidence reasons.
const (
	PrereqNotUnlocked       = "not_unlocked"
	PrereqUnlockedAfterYear = "unlocked_after_target_year"
	PrereqYearGapTooSmall   = "year_gap_too_small"
	PrereqAgeUnknown        = "age_unknown"
	PrereqAgeOutOfRange     = "age_out_of_range"
	PrereqUnknownKind       = "unsupported_prerequisite_type"
)

// PrerequisiteEvidence reports one prerequisite check.
type PrerequisiteEvidence struct {
	Kind       string `json:"kind"`
	AwardID    string `json:"awardId,omitempty"`
	Met        bool   `json:"isMet"`
	Year       *int   `json:"year,omitempty"`
	UnlockYear *int   `json:"unlockYear,omitempty"`
	MinYearGap *int   `json:"minYearGap,omitempty"`
	Age        *int   `json:"age,omitempty"`
	MinAge     *int   `json:"minAge,omitempty"`
	MaxAge     *int   `json:"maxAge,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// prerequisitesPresent is the cheap check: every award prerequisite is
// unlocked at all. Years, gaps and age are ignored. It returns the evidence
// of the missing awards.
func (ev *evaluation) prerequisitesPresent(def model.AwardDefinition) (bool, []PrerequisiteEvidence) {
	var missing []PrerequisiteEvidence
	for _, p := range def.Prerequisites {
		if p.Kind != model.PrerequisiteAward {
			continue
		}
		if _, ok := ev.unlocked[p.AwardID]; !ok {
			missing = append(missing, PrerequisiteEvidence{
				Kind:    p.Kind,
				AwardID: p.AwardID,
				Reason:  PrereqNotUnlocked,
			})
		}
	}
	return len(missing) == 0, missing
}

// prerequisitesAt checks every prerequisite as of the target year.
func (ev *evaluation) prerequisitesAt(def model.AwardDefinition, year int) (bool, []PrerequisiteEvidence) {
	all := true
	out := make([]PrerequisiteEvidence, 0, len(def.Prerequisites))
	for _, p := range def.Prerequisites {
		var pe PrerequisiteEvidence
		switch p.Kind {
		case model.PrerequisiteAward:
			pe = ev.awardPrerequisite(p, year)
		case model.PrerequisiteAge:
			pe = ev.agePrerequisite(p, year)
		default:
			pe = PrerequisiteEvidence{Kind: p.Kind, Year: yearPtr(year), Reason: PrereqUnknownKind}
		}
		all = all && pe.Met
		out = append(out, pe)
	}
	return all, out
}

func (ev *evaluation) awardPrerequisite(p model.PrerequisiteSpec, year int) PrerequisiteEvidence {
	pe := PrerequisiteEvidence{Kind: p.Kind, AwardID: p.AwardID, Year: yearPtr(year), MinYearGap: p.MinYearGap}
	u, ok := ev.unlocked[p.AwardID]
	switch {
	case !ok:
		pe.Reason = PrereqNotUnlocked
	case u > year:
		pe.UnlockYear = yearPtr(u)
		pe.Reason = PrereqUnlockedAfterYear
	case p.MinYearGap != nil && year-u < *p.MinYearGap:
		pe.UnlockYear = yearPtr(u)
		pe.Reason = PrereqYearGapTooSmall
	default:
		pe.UnlockYear = yearPtr(u)
		pe.Met = true
	}
	return pe
}

func (ev *evaluation) agePrerequisite(p model.PrerequisiteSpec, year int) PrerequisiteEvidence {
	pe := PrerequisiteEvidence{Kind: p.Kind, Year: yearPtr(year), MinAge: p.MinAge, MaxAge: p.MaxAge}
	a := ev.ageAt(year)
	switch {
	case a == nil:
		pe.Reason = PrereqAgeUnknown
	case p.MinAge != nil && *a < *p.MinAge, p.MaxAge != nil && *a > *p.MaxAge:
		pe.Age = a
		pe.Reason = PrereqAgeOutOfRange
	default:
		pe.Age = a
		pe.Met = true
	}
	return pe
}
