package eligibility_test

import (
	"reflect"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

func propertyEngine() *eligibility.Engine {
	streak := model.AwardDefinition{ID: "streak", Category: "marksman", Requirements: requirement.Leaf{Spec: requirement.Streak{
		Window:     requirement.Window{MinCount: 2, TimeWindowYears: 2},
		Thresholds: requirement.Thresholds{"*": {MinPoints: f64(43)}},
	}}}
	sustained := model.AwardDefinition{
		ID:            "sustained",
		Category:      "marksman",
		Prerequisites: []model.PrerequisiteSpec{{Kind: model.PrerequisiteAward, AwardID: "base"}},
		Requirements:  sustainedLeaf(requirement.Sustained{RequiredYears: 2, TimeWindowYears: 4, MinValue: f64(44)}),
	}
	either := model.AwardDefinition{ID: "either", Requirements: requirement.Or{Children: []requirement.Node{
		streakLeaf(3, 47),
		requirement.Leaf{Spec: requirement.MedalCount{Categories: []string{"gold"}}},
	}}}
	base := model.AwardDefinition{ID: "base", Category: "marksman"}
	return newEngine(2024, base, streak, sustained, either)
}

func recordGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(2016, 2024),
		gen.Float64Range(38, 50),
		gen.Bool(),
	).Map(func(v []interface{}) model.ActivityRecord {
		if v[2].(bool) {
			return medal(v[0].(int), "gold")
		}
		return series(v[0].(int), v[1].(float64))
	})
}

func profileWith(recs []model.ActivityRecord) model.Profile {
	return model.Profile{
		DateOfBirth:    bornIn(1970),
		UnlockedAwards: []model.UnlockedAward{{AwardID: "base", Year: 2018}},
		ActivityLog:    recs,
	}
}

func TestEvaluationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	engine := propertyEngine()
	awards := []string{"streak", "sustained", "either"}

	properties.Property("evaluation is idempotent", prop.ForAll(
		func(recs []model.ActivityRecord) bool {
			p := profileWith(recs)
			for _, id := range awards {
				a, errA := engine.EvaluateAward(p, id)
				b, errB := engine.EvaluateAward(p, id)
				if errA != nil || errB != nil || !reflect.DeepEqual(a, b) {
					return false
				}
			}
			return reflect.DeepEqual(engine.EvaluateAll(p), engine.EvaluateAll(p))
		},
		gen.SliceOf(recordGen()),
	))

	properties.Property("adding a record never locks an achievable year", prop.ForAll(
		func(recs []model.ActivityRecord, extra model.ActivityRecord, year int) bool {
			before := profileWith(recs)
			after := profileWith(append(slices.Clone(recs), extra))
			for _, id := range awards {
				r1, _ := engine.EvaluateAward(before, id, eligibility.WithEndYear(year))
				if r1.Status != eligibility.StatusAchievable {
					continue
				}
				r2, _ := engine.EvaluateAward(after, id, eligibility.WithEndYear(year))
				if r2.Status != eligibility.StatusAchievable {
					return false
				}
			}
			return true
		},
		gen.SliceOf(recordGen()),
		recordGen(),
		gen.IntRange(2016, 2024),
	))

	properties.Property("eligible years only grow as records are added", prop.ForAll(
		func(recs []model.ActivityRecord, extra model.ActivityRecord) bool {
			before := profileWith(recs)
			after := profileWith(append(slices.Clone(recs), extra))
			for _, id := range awards {
				y1, _ := engine.EligibleYears(before, id)
				y2, _ := engine.EligibleYears(after, id)
				for _, y := range y1 {
					if !slices.Contains(y2, y) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(recordGen()),
		recordGen(),
	))

	properties.Property("sustained years never precede the counting bound", prop.ForAll(
		func(recs []model.ActivityRecord) bool {
			r, _ := engine.EvaluateAward(profileWith(recs), "sustained")
			if r.Evidence == nil {
				return true
			}
			for _, l := range r.Evidence.Leaves() {
				for _, y := range l.QualifyingYears {
					if y <= 2018 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(recordGen()),
	))

	properties.TestingRun(t)
}
