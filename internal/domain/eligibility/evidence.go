package eligibility

import "github.com/okian/medalist/internal/domain/requirement"

// Leaf evidence reasons.
const (
	ReasonUnsupportedRequirement = "unsupported_requirement_type"
	ReasonUnknownCriterion       = "unknown_criterion"
	ReasonCurrentYearRequired    = "current_year_required"
)

// Evidence mirrors the evaluated requirement tree.
type Evidence struct {
	Op       requirement.Op `json:"op"`
	Met      bool           `json:"isMet"`
	Children []Evidence     `json:"children,omitempty"`
	Leaf     *LeafEvidence  `json:"leaf,omitempty"`
}

// Progress counts passing items against the required number.
type Progress struct {
	Current  int `json:"current"`
	Required int `json:"required"`
}

// LeafEvidence reports how a single leaf fared. Year is the end of the
// evaluated block; in best-window mode it is the block with the highest count.
type LeafEvidence struct {
	Kind                 string   `json:"kind"`
	Name                 string   `json:"name,omitempty"`
	Met                  bool     `json:"isMet"`
	Progress             Progress `json:"progress"`
	Year                 *int     `json:"year,omitempty"`
	WindowStart          *int     `json:"windowStart,omitempty"`
	WindowEnd            *int     `json:"windowEnd,omitempty"`
	QualifyingYears      []int    `json:"qualifyingYears,omitempty"`
	EarliestCountingYear *int     `json:"earliestCountingYear,omitempty"`
	Reason               string   `json:"reason,omitempty"`
}

// Leaves flattens the leaf evidence of e in visitation order.
func (e Evidence) Leaves() []LeafEvidence {
	var out []LeafEvidence
	var walk func(Evidence)
	walk = func(n Evidence) {
		if n.Leaf != nil {
			out = append(out, *n.Leaf)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

func yearPtr(y int) *int { return &y }
