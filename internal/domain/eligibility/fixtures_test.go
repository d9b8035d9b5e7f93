package eligibility_test

import (
	"time"

	"github.com/okian/medalist/internal/domain/catalog"
	"github.com/okian/medalist/internal/domain/criteria"
	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func series(year int, points float64) model.ActivityRecord {
	return model.ActivityRecord{Kind: model.KindSeries, Year: year, Group: "rifle", Points: f64(points)}
}

func timed(year, hits int, seconds float64) model.ActivityRecord {
	return model.ActivityRecord{Kind: model.KindTimed, Year: year, Group: "pistol", Hits: intp(hits), DurationSeconds: f64(seconds)}
}

func medal(year int, category string) model.ActivityRecord {
	return model.ActivityRecord{Kind: model.KindMedal, Year: year, Category: category}
}

func bornIn(year int) *time.Time {
	t := time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
	return &t
}

// streakLeaf requires count series results of at least minPoints in one year.
func streakLeaf(count int, minPoints float64) requirement.Leaf {
	return requirement.Leaf{Spec: requirement.Streak{
		Window:     requirement.Window{MinCount: count},
		Thresholds: requirement.Thresholds{requirement.WildcardGroup: {MinPoints: f64(minPoints)}},
	}}
}

func sustainedLeaf(s requirement.Sustained) requirement.Leaf {
	return requirement.Leaf{Spec: s}
}

func mustCatalog(defs ...model.AwardDefinition) *catalog.Catalog {
	c, err := catalog.New(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

func newEngine(year int, defs ...model.AwardDefinition) *eligibility.Engine {
	return eligibility.New(mustCatalog(defs...), eligibility.WithClock(eligibility.FixedYear(year)))
}

func leafOf(r eligibility.Result) eligibility.LeafEvidence {
	leaves := r.Evidence.Leaves()
	if len(leaves) == 0 {
		return eligibility.LeafEvidence{}
	}
	return leaves[0]
}

func eligibilityRegistry(exprs map[string]string) *criteria.Registry {
	r := criteria.NewRegistry()
	if err := r.RegisterCEL(exprs); err != nil {
		panic(err)
	}
	return r
}
