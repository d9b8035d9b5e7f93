package requirement

import "github.com/okian/medalist/internal/domain/age"

// Leaf kinds as they appear in catalogs.
const (
	KindStreak     = "streak"
	KindTimedTask  = "timed_task"
	KindMedalCount = "medal_count"
	KindAwardCount = "award_count"
	KindSustained  = "sustained"
	KindCustom     = "custom"
)

// WildcardGroup keys the threshold used for groups without their own entry.
const WildcardGroup = "*"

// LeafSpec is the typed payload of a Leaf.
type LeafSpec interface {
	Kind() string
	isLeafSpec()
}

// Threshold is the per-group test a single record must clear. Unset fields
// impose no constraint.
type Threshold struct {
	MinPoints  *float64 `json:"minPoints,omitempty"`
	MinHits    *int     `json:"minHits,omitempty"`
	MaxSeconds *float64 `json:"maxSeconds,omitempty"`
	MinScore   *float64 `json:"minScore,omitempty"`
}

// Thresholds maps a record group to its threshold.
type Thresholds map[string]Threshold

// For returns the threshold for group, falling back to the wildcard entry.
func (t Thresholds) For(group string) (Threshold, bool) {
	if th, ok := t[group]; ok {
		return th, true
	}
	th, ok := t[WildcardGroup]
	return th, ok
}

// Window holds the counting parameters shared by record-counting leaves.
type Window struct {
	MinCount        int `json:"minCount,omitempty"`
	TimeWindowYears int `json:"timeWindowYears,omitempty"`
}

// Required returns the minimum count, at least one.
func (w Window) Required() int {
	if w.MinCount < 1 {
		return 1
	}
	return w.MinCount
}

// Years returns the window length, at least one.
func (w Window) Years() int {
	if w.TimeWindowYears < 1 {
		return 1
	}
	return w.TimeWindowYears
}

// Streak counts results whose points clear the group threshold.
type Streak struct {
	Window
	RecordKind    string                      `json:"recordKind,omitempty"`
	Thresholds    Thresholds                  `json:"thresholds"`
	AgeCategories []age.Category[Thresholds] `json:"ageCategories,omitempty"`
}

// TimedTask counts results that reach a hit count within a time limit.
type TimedTask struct {
	Window
	RecordKind    string                      `json:"recordKind,omitempty"`
	Thresholds    Thresholds                  `json:"thresholds"`
	AgeCategories []age.Category[Thresholds] `json:"ageCategories,omitempty"`
}

// MedalCount counts categorized medal records such as competition placings.
type MedalCount struct {
	Window
	RecordKind string   `json:"recordKind,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// AwardCount counts unlocked awards of matching category and tier.
type AwardCount struct {
	Window
	Categories []string `json:"categories,omitempty"`
	Tiers      []string `json:"tiers,omitempty"`
}

// Sustained requires a number of distinct qualifying years, optionally
// within a trailing window. TimeWindowYears of zero leaves it unbounded.
type Sustained struct {
	RequiredYears          int      `json:"requiredYears"`
	TimeWindowYears        int      `json:"timeWindowYears,omitempty"`
	References             []string `json:"references,omitempty"`
	RecordKind             string   `json:"recordKind,omitempty"`
	MinValue               *float64 `json:"minValue,omitempty"`
	MustIncludeCurrentYear bool     `json:"mustIncludeCurrentYear,omitempty"`
	PerYear                YearTest `json:"-"`
}

// Required returns the number of qualifying years needed, at least one.
func (s Sustained) Required() int {
	if s.RequiredYears < 1 {
		return 1
	}
	return s.RequiredYears
}

// Custom delegates to a named predicate from the criteria registry.
type Custom struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Unsupported keeps a leaf of unknown kind so evaluation can report it.
type Unsupported struct {
	KindName string
	Raw      map[string]any
}

func (Streak) Kind() string        { return KindStreak }
func (TimedTask) Kind() string     { return KindTimedTask }
func (MedalCount) Kind() string    { return KindMedalCount }
func (AwardCount) Kind() string    { return KindAwardCount }
func (Sustained) Kind() string     { return KindSustained }
func (Custom) Kind() string        { return KindCustom }
func (u Unsupported) Kind() string { return u.KindName }

func (Streak) isLeafSpec()      {}
func (TimedTask) isLeafSpec()   {}
func (MedalCount) isLeafSpec()  {}
func (AwardCount) isLeafSpec()  {}
func (Sustained) isLeafSpec()   {}
func (Custom) isLeafSpec()      {}
func (Unsupported) isLeafSpec() {}
