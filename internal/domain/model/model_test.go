package model_test

import (
	"testing"
	"time"

	"github.com/okian/medalist/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func TestActivityRecord(t *testing.T) {
	Convey("Given activity records", t, func() {
		Convey("When a record has an explicit year", func() {
			d := time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)
			r := model.ActivityRecord{Kind: model.KindSeries, Year: 2023, Date: &d}

			Convey("Then the year wins over the date", func() {
				So(r.EffectiveYear(), ShouldEqual, 2023)
				So(r.Valid(), ShouldBeTrue)
			})
		})

		Convey("When a record only has a date", func() {
			d := time.Date(2021, time.March, 3, 0, 0, 0, 0, time.UTC)
			r := model.ActivityRecord{Kind: model.KindSeries, Date: &d}

			Convey("Then the year derives from the date", func() {
				So(r.EffectiveYear(), ShouldEqual, 2021)
			})
		})

		Convey("When a record lacks kind or year", func() {
			Convey("Then it is not valid", func() {
				So(model.ActivityRecord{Year: 2020}.Valid(), ShouldBeFalse)
				So(model.ActivityRecord{Kind: model.KindSeries}.Valid(), ShouldBeFalse)
			})
		})

		Convey("When reading the primary value", func() {
			Convey("Then points take precedence over score and hits", func() {
				v, ok := model.ActivityRecord{Points: f64(44), Score: f64(9), Hits: intp(3)}.Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 44.0)

				v, ok = model.ActivityRecord{Score: f64(9), Hits: intp(3)}.Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 9.0)

				v, ok = model.ActivityRecord{Hits: intp(3)}.Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3.0)

				_, ok = model.ActivityRecord{}.Value()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestProfile(t *testing.T) {
	Convey("Given a profile", t, func() {
		dob := time.Date(1980, time.June, 1, 0, 0, 0, 0, time.UTC)
		p := model.Profile{
			ID:          "p1",
			DateOfBirth: &dob,
			UnlockedAwards: []model.UnlockedAward{
				{AwardID: "bronze", Year: 2019},
				{AwardID: "bronze", Year: 2017},
			},
			ActivityLog: []model.ActivityRecord{{Kind: model.KindSeries, Year: 2020, Points: f64(41), Hits: intp(3), Date: &dob}},
		}

		Convey("When looking up an unlock year", func() {
			Convey("Then the earliest year wins", func() {
				y, ok := p.UnlockYear("bronze")
				So(ok, ShouldBeTrue)
				So(y, ShouldEqual, 2017)
			})

			Convey("And unknown awards are not found", func() {
				_, ok := p.UnlockYear("gold")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When cloning", func() {
			c := p.Clone()
			c.ActivityLog[0].Year = 1999
			c.UnlockedAwards = append(c.UnlockedAwards, model.UnlockedAward{AwardID: "x", Year: 2020})
			*c.DateOfBirth = time.Time{}
			*c.ActivityLog[0].Points = 99
			*c.ActivityLog[0].Hits = 0
			*c.ActivityLog[0].Date = time.Time{}

			Convey("Then the original is untouched", func() {
				So(p.ActivityLog[0].Year, ShouldEqual, 2020)
				So(*p.ActivityLog[0].Points, ShouldEqual, 41)
				So(*p.ActivityLog[0].Hits, ShouldEqual, 3)
				So(p.ActivityLog[0].Date.Year(), ShouldEqual, 1980)
				So(p.UnlockedAwards, ShouldHaveLength, 2)
				So(p.DateOfBirth.Year(), ShouldEqual, 1980)
			})
		})
	})
}
