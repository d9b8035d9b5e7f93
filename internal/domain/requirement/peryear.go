package requirement

// Per-year test kinds.
const (
	YearKindReferences = "references"
	YearKindThreshold  = "threshold"
	YearKindCustom     = "custom"
)

// YearTest decides whether a single calendar year qualifies toward a
// sustained requirement.
type YearTest interface {
	isYearTest()
}

// YearAll qualifies when every test does.
type YearAll struct{ Tests []YearTest }

// YearAny qualifies when some test does.
type YearAny struct{ Tests []YearTest }

// YearReferences qualifies when every named award's requirements hold that
// year. Empty AwardIDs means the references of the enclosing leaf or award.
type YearReferences struct {
	AwardIDs []string `json:"awardIds,omitempty"`
}

// YearThreshold qualifies when a record of RecordKind reaches MinValue.
// Empty RecordKind means the record kind of the enclosing leaf.
type YearThreshold struct {
	RecordKind string   `json:"recordKind,omitempty"`
	MinValue   *float64 `json:"minValue,omitempty"`
}

// YearCustom qualifies through a registered predicate.
type YearCustom struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

func (YearAll) isYearTest()        {}
func (YearAny) isYearTest()        {}
func (YearReferences) isYearTest() {}
func (YearThreshold) isYearTest()  {}
func (YearCustom) isYearTest()     {}
