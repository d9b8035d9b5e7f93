package model

import (
	"slices"
	"time"
)

// UnlockedAward records the year an award was obtained.
type UnlockedAward struct {
	AwardID string `json:"awardId" validate:"required"`
	Year    int    `json:"year" validate:"gte=1900,lte=2200"`
}

// Features toggles evaluation behavior per profile.
type Features struct {
	EnforceCurrentYearForSustained bool `json:"enforceCurrentYearForSustained"`
}

// Profile is the evaluation input for one person.
type Profile struct {
	ID             string           `json:"id" validate:"required,max=128"`
	DateOfBirth    *time.Time       `json:"dateOfBirth,omitempty"`
	UnlockedAwards []UnlockedAward  `json:"unlockedAwards" validate:"dive"`
	ActivityLog    []ActivityRecord `json:"activityLog" validate:"dive"`
	Features       Features         `json:"features"`
}

// Clone returns a deep copy of p. Records are copied field by field, so
// the result shares no slices or pointers with p.
func (p Profile) Clone() Profile {
	out := p
	out.DateOfBirth = clonePtr(p.DateOfBirth)
	out.UnlockedAwards = slices.Clone(p.UnlockedAwards)
	if p.ActivityLog != nil {
		out.ActivityLog = make([]ActivityRecord, len(p.ActivityLog))
		for i, r := range p.ActivityLog {
			out.ActivityLog[i] = r.Clone()
		}
	}
	return out
}

// UnlockYear returns the year awardID was unlocked. When the award appears
// more than once the earliest year wins.
func (p Profile) UnlockYear(awardID string) (int, bool) {
	year, found := 0, false
	for _, u := range p.UnlockedAwards {
		if u.AwardID != awardID {
			continue
		}
		if !found || u.Year < year {
			year, found = u.Year, true
		}
	}
	return year, found
}
