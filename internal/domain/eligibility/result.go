package eligibility

// Status classifies an award for a profile.
type Status string

// Award statuses.
const (
	StatusUnlocked   Status = "unlocked"
	StatusAchievable Status = "achievable"
	StatusLocked     Status = "locked"
)

// Reasons attached to locked results.
const (
	ReasonRequirementsNotMet  = "requirements_not_met"
	ReasonPrerequisitesNotMet = "prerequisites_not_met"
)

// Result is the verdict for one award. Evidence is nil for unlocked awards
// and for awards that fail the prerequisite presence check before their
// requirements are looked at.
type Result struct {
	AwardID        string                 `json:"awardId"`
	Status         Status                 `json:"status"`
	AchievableYear *int                   `json:"achievableYear,omitempty"`
	UnlockedYear   *int                   `json:"unlockedYear,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
	Evidence       *Evidence              `json:"evidence,omitempty"`
	Prerequisites  []PrerequisiteEvidence `json:"prerequisites,omitempty"`
}

// Summary buckets results for a whole catalog, each in catalog order.
type Summary struct {
	Unlocked   []Result `json:"unlocked"`
	Achievable []Result `json:"achievable"`
	Locked     []Result `json:"locked"`
}

func (s *Summary) add(r Result) {
	switch r.Status {
	case StatusUnlocked:
		s.Unlocked = append(s.Unlocked, r)
	case StatusAchievable:
		s.Achievable = append(s.Achievable, r)
	default:
		s.Locked = append(s.Locked, r)
	}
}
