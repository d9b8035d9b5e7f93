package eligibility

import "github.com/okian/medalist/internal/domain/model"

// hit is a candidate year whose requirement tree holds.
type hit struct {
	year     int
	evidence Evidence
}

// scan tries every candidate year newest first and returns each one whose
// requirement tree holds, with its evidence. yield stops the scan by
// returning false.
func (ev *evaluation) scan(def model.AwardDefinition, yield func(hit) bool) {
	for _, y := range ev.candidateYears() {
		year := y
		if e := ev.node(def.Requirements, def, &year); e.Met {
			if !yield(hit{year: y, evidence: e}) {
				return
			}
		}
	}
}
