package eligibility_test

import (
	"errors"
	"testing"

	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluateAward(t *testing.T) {
	Convey("Given a small award family", t, func() {
		bronze := model.AwardDefinition{ID: "bronze", Category: "marksman", Tier: "bronze", Requirements: streakLeaf(1, 40)}
		silver := model.AwardDefinition{
			ID:       "silver",
			Category: "marksman",
			Tier:     "silver",
			Prerequisites: []model.PrerequisiteSpec{
				{Kind: model.PrerequisiteAward, AwardID: "bronze", MinYearGap: intp(2)},
			},
		}
		veteran := model.AwardDefinition{
			ID:            "veteran",
			Prerequisites: []model.PrerequisiteSpec{{Kind: model.PrerequisiteAge, MinAge: intp(50), MaxAge: intp(59)}},
		}
		engine := newEngine(2024, bronze, silver, veteran)

		Convey("When the award id is unknown", func() {
			_, err := engine.EvaluateAward(model.Profile{}, "platinum")

			Convey("Then a not-found error is returned", func() {
				So(errors.Is(err, eligibility.ErrAwardNotFound), ShouldBeTrue)
			})
		})

		Convey("When the award is already unlocked", func() {
			p := model.Profile{UnlockedAwards: []model.UnlockedAward{{AwardID: "bronze", Year: 2015}}}
			r, err := engine.EvaluateAward(p, "bronze", eligibility.WithEndYear(2024))

			Convey("Then it stays unlocked without re-evaluation", func() {
				So(err, ShouldBeNil)
				So(r.Status, ShouldEqual, eligibility.StatusUnlocked)
				So(*r.UnlockedYear, ShouldEqual, 2015)
				So(r.Evidence, ShouldBeNil)
			})
		})

		Convey("When a prerequisite award is missing", func() {
			r, _ := engine.EvaluateAward(model.Profile{}, "silver")

			Convey("Then the cheap check fails fast", func() {
				So(r.Status, ShouldEqual, eligibility.StatusLocked)
				So(r.Reason, ShouldEqual, eligibility.ReasonPrerequisitesNotMet)
				So(r.Evidence, ShouldBeNil)
				So(r.Prerequisites, ShouldHaveLength, 1)
				So(r.Prerequisites[0].Reason, ShouldEqual, eligibility.PrereqNotUnlocked)
			})
		})

		Convey("When the prerequisite was unlocked one year ago with a gap of two", func() {
			p := model.Profile{UnlockedAwards: []model.UnlockedAward{{AwardID: "bronze", Year: 2023}}}

			Convey("Then the current year is rejected by the year gap", func() {
				r, _ := engine.EvaluateAward(p, "silver")
				So(r.Status, ShouldEqual, eligibility.StatusLocked)
				So(r.Reason, ShouldEqual, eligibility.ReasonPrerequisitesNotMet)
				So(r.Evidence, ShouldNotBeNil)
				So(r.Prerequisites[0].Reason, ShouldEqual, eligibility.PrereqYearGapTooSmall)
			})

			Convey("Then a year two years out satisfies the gap", func() {
				r, _ := engine.EvaluateAward(p, "silver", eligibility.WithEndYear(2025))
				So(r.Status, ShouldEqual, eligibility.StatusAchievable)
				So(*r.AchievableYear, ShouldEqual, 2025)
			})

			Convey("Then a target year before the unlock fails", func() {
				r, _ := engine.EvaluateAward(p, "silver", eligibility.WithEndYear(2022))
				So(r.Status, ShouldEqual, eligibility.StatusLocked)
				So(r.Prerequisites[0].Reason, ShouldEqual, eligibility.PrereqUnlockedAfterYear)
			})
		})

		Convey("When an age window gates the award", func() {
			Convey("Then a missing birth date leaves it unmet", func() {
				r, _ := engine.EvaluateAward(model.Profile{}, "veteran")
				So(r.Status, ShouldEqual, eligibility.StatusLocked)
				So(r.Prerequisites[0].Reason, ShouldEqual, eligibility.PrereqAgeUnknown)
			})

			Convey("Then ages inside the window pass and outside fail", func() {
				r, _ := engine.EvaluateAward(model.Profile{DateOfBirth: bornIn(1974)}, "veteran")
				So(r.Status, ShouldEqual, eligibility.StatusAchievable)
				So(*r.Prerequisites[0].Age, ShouldEqual, 50)

				r, _ = engine.EvaluateAward(model.Profile{DateOfBirth: bornIn(1964)}, "veteran")
				So(r.Status, ShouldEqual, eligibility.StatusLocked)
				So(r.Prerequisites[0].Reason, ShouldEqual, eligibility.PrereqAgeOutOfRange)
			})
		})

		Convey("When the same profile is evaluated twice", func() {
			p := model.Profile{ActivityLog: []model.ActivityRecord{series(2021, 41), series(2023, 39)}}
			a, _ := engine.EvaluateAward(p, "bronze")
			b, _ := engine.EvaluateAward(p, "bronze")

			Convey("Then the results are identical", func() {
				So(a, ShouldResemble, b)
				So(*a.AchievableYear, ShouldEqual, 2021)
			})
		})
	})
}

func TestEligibleYearsAndEvaluateAll(t *testing.T) {
	Convey("Given a streak award and a dependent award", t, func() {
		bronze := model.AwardDefinition{ID: "bronze", Category: "marksman", Requirements: streakLeaf(1, 43)}
		silver := model.AwardDefinition{
			ID:            "silver",
			Category:      "marksman",
			Prerequisites: []model.PrerequisiteSpec{{Kind: model.PrerequisiteAward, AwardID: "bronze"}},
			Requirements:  streakLeaf(2, 45),
		}
		gold := model.AwardDefinition{ID: "gold", Category: "marksman", Requirements: streakLeaf(5, 48)}
		engine := newEngine(2024, bronze, silver, gold)
		p := model.Profile{ActivityLog: []model.ActivityRecord{series(2020, 44), series(2021, 40), series(2022, 46)}}

		Convey("When listing eligible years", func() {
			years, err := engine.EligibleYears(p, "bronze")

			Convey("Then every qualifying year is returned newest first", func() {
				So(err, ShouldBeNil)
				So(years, ShouldResemble, []int{2022, 2020})
			})

			Convey("And an unlocked award reports only its unlock year", func() {
				p.UnlockedAwards = []model.UnlockedAward{{AwardID: "bronze", Year: 2019}}
				years, _ := engine.EligibleYears(p, "bronze")
				So(years, ShouldResemble, []int{2019})
			})

			Convey("And an unknown award fails", func() {
				_, err := engine.EligibleYears(p, "nope")
				So(errors.Is(err, eligibility.ErrAwardNotFound), ShouldBeTrue)
			})

			Convey("And an award with no eligible year returns an empty list", func() {
				years, _ := engine.EligibleYears(p, "gold")
				So(years, ShouldBeEmpty)
			})
		})

		Convey("When evaluating the whole catalog", func() {
			p.UnlockedAwards = []model.UnlockedAward{{AwardID: "bronze", Year: 2020}}
			p.ActivityLog = append(p.ActivityLog, series(2022, 47))
			s := engine.EvaluateAll(p)

			Convey("Then awards are bucketed by status", func() {
				So(s.Unlocked, ShouldHaveLength, 1)
				So(s.Unlocked[0].AwardID, ShouldEqual, "bronze")
				So(s.Achievable, ShouldHaveLength, 1)
				So(s.Achievable[0].AwardID, ShouldEqual, "silver")
				So(*s.Achievable[0].AchievableYear, ShouldEqual, 2022)
				So(s.Locked, ShouldHaveLength, 1)
				So(s.Locked[0].Reason, ShouldEqual, eligibility.ReasonRequirementsNotMet)
			})
		})
	})
}

func TestScanFallsBackToOlderYears(t *testing.T) {
	Convey("Given an award capped at age 30", t, func() {
		junior := model.AwardDefinition{
			ID:            "junior",
			Requirements:  streakLeaf(1, 44),
			Prerequisites: []model.PrerequisiteSpec{{Kind: model.PrerequisiteAge, MaxAge: intp(30)}},
		}
		engine := newEngine(2025, junior)
		p := model.Profile{DateOfBirth: bornIn(1990), ActivityLog: []model.ActivityRecord{series(2019, 44)}}

		Convey("When only a young year qualifies", func() {
			r, _ := engine.EvaluateAward(p, "junior")

			Convey("Then that year is achievable", func() {
				So(r.Status, ShouldEqual, eligibility.StatusAchievable)
				So(*r.AchievableYear, ShouldEqual, 2019)
			})
		})

		Convey("When a newer qualifying year falls outside the age range", func() {
			p.ActivityLog = append(p.ActivityLog, series(2024, 44))
			r, _ := engine.EvaluateAward(p, "junior")
			years, _ := engine.EligibleYears(p, "junior")

			Convey("Then the scan falls back to the older year", func() {
				So(r.Status, ShouldEqual, eligibility.StatusAchievable)
				So(*r.AchievableYear, ShouldEqual, 2019)
				So(r.Evidence.Met, ShouldBeTrue)
				So(years, ShouldResemble, []int{2019})
			})
		})

		Convey("When no qualifying year passes the age range", func() {
			p.ActivityLog = []model.ActivityRecord{series(2022, 44), series(2024, 44)}
			r, _ := engine.EvaluateAward(p, "junior")

			Convey("Then the newest qualifying year is reported as locked", func() {
				So(r.Status, ShouldEqual, eligibility.StatusLocked)
				So(r.Reason, ShouldEqual, eligibility.ReasonPrerequisitesNotMet)
				So(r.Evidence.Met, ShouldBeTrue)
				So(r.Prerequisites, ShouldHaveLength, 1)
				So(r.Prerequisites[0].Met, ShouldBeFalse)
			})
		})
	})
}

func TestEvidenceLeaves(t *testing.T) {
	Convey("Given a nested requirement tree", t, func() {
		tree := requirement.And{Children: []requirement.Node{
			streakLeaf(1, 40),
			requirement.Or{Children: []requirement.Node{
				requirement.Leaf{Spec: requirement.MedalCount{}},
				requirement.Leaf{Spec: requirement.TimedTask{Thresholds: requirement.Thresholds{"*": {MinHits: intp(1)}}}},
			}},
		}}
		engine := newEngine(2024, model.AwardDefinition{ID: "mix", Requirements: tree})
		p := model.Profile{ActivityLog: []model.ActivityRecord{series(2024, 41), timed(2024, 3, 10)}}

		Convey("When it is evaluated", func() {
			r, _ := engine.EvaluateAward(p, "mix", eligibility.WithEndYear(2024))

			Convey("Then the evidence mirrors the tree and flattens in order", func() {
				So(r.Evidence.Op, ShouldEqual, requirement.OpAnd)
				So(r.Evidence.Met, ShouldBeTrue)
				So(r.Evidence.Children[1].Op, ShouldEqual, requirement.OpOr)
				So(r.Evidence.Children[1].Children[0].Met, ShouldBeFalse)

				kinds := []string{}
				for _, l := range r.Evidence.Leaves() {
					kinds = append(kinds, l.Kind)
				}
				So(kinds, ShouldResemble, []string{requirement.KindStreak, requirement.KindMedalCount, requirement.KindTimedTask})
			})
		})
	})
}
