package eligibility

import (
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

// node evaluates n for award. A nil end selects best-window mode for every
// leaf; otherwise every leaf is judged for the same end year. All children
// are evaluated so the evidence is complete.
func (ev *evaluation) node(n requirement.Node, award model.AwardDefinition, end *int) Evidence {
	switch n := n.(type) {
	case nil:
		return Evidence{Op: requirement.OpAnd, Met: true}
	case requirement.And:
		out := Evidence{Op: requirement.OpAnd, Met: true}
		for _, c := range n.Children {
			ce := ev.node(c, award, end)
			out.Met = out.Met && ce.Met
			out.Children = append(out.Children, ce)
		}
		return out
	case requirement.Or:
		out := Evidence{Op: requirement.OpOr}
		for _, c := range n.Children {
			ce := ev.node(c, award, end)
			out.Met = out.Met || ce.Met
			out.Children = append(out.Children, ce)
		}
		return out
	case requirement.Leaf:
		le := ev.leaf(n.Spec, award, end)
		return Evidence{Op: requirement.OpLeaf, Met: le.Met, Leaf: &le}
	default:
		return Evidence{Op: n.Op()}
	}
}

func (ev *evaluation) leaf(spec requirement.LeafSpec, award model.AwardDefinition, end *int) LeafEvidence {
	switch s := spec.(type) {
	case requirement.Streak:
		kind := orDefault(s.RecordKind, model.KindSeries)
		return ev.counted(s.Kind(), s.Window, ev.thresholdCounter(kind, s.Thresholds, s.AgeCategories), end)
	case requirement.TimedTask:
		kind := orDefault(s.RecordKind, model.KindTimed)
		return ev.counted(s.Kind(), s.Window, ev.thresholdCounter(kind, s.Thresholds, s.AgeCategories), end)
	case requirement.MedalCount:
		return ev.counted(s.Kind(), s.Window, ev.medalCounter(s), end)
	case requirement.AwardCount:
		return ev.counted(s.Kind(), s.Window, ev.awardCounter(s), end)
	case requirement.Sustained:
		return ev.sustained(s, award, end)
	case requirement.Custom:
		return ev.custom(s, end)
	case nil:
		return LeafEvidence{Reason: ReasonUnsupportedRequirement}
	default:
		return LeafEvidence{Kind: spec.Kind(), Reason: ReasonUnsupportedRequirement}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
