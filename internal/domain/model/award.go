package model

import "github.com/okian/medalist/internal/domain/requirement"

// Prerequisite kinds.
const (
	PrerequisiteAward = "award"
	PrerequisiteAge   = "age"
)

// PrerequisiteSpec gates an award on another award or on the holder's age.
type PrerequisiteSpec struct {
	Kind       string `json:"kind"`
	AwardID    string `json:"awardId,omitempty"`
	MinYearGap *int   `json:"minYearGap,omitempty"`
	MinAge     *int   `json:"minAge,omitempty"`
	MaxAge     *int   `json:"maxAge,omitempty"`
}

// AwardDefinition is a static catalog entry. The engine never mutates it.
type AwardDefinition struct {
	ID            string
	Name          string
	Category      string
	Tier          string
	Prerequisites []PrerequisiteSpec
	Requirements  requirement.Node
	References    []string
}
