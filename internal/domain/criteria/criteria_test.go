package criteria_test

import (
	"errors"
	"testing"

	"github.com/okian/medalist/internal/domain/criteria"
	"github.com/okian/medalist/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func pts(v float64) *float64 { return &v }

func TestRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := criteria.NewRegistry()
		always := func(criteria.YearContext) bool { return true }

		Convey("When registering a predicate", func() {
			So(r.Register("always", always), ShouldBeNil)

			Convey("Then it can be looked up", func() {
				p, ok := r.Lookup("always")
				So(ok, ShouldBeTrue)
				So(p(criteria.YearContext{}), ShouldBeTrue)
				So(r.Names(), ShouldResemble, []string{"always"})
			})

			Convey("Then registering the same name again fails", func() {
				err := r.Register("always", always)
				So(errors.Is(err, criteria.ErrDuplicate), ShouldBeTrue)
			})
		})

		Convey("When registering invalid entries", func() {
			So(errors.Is(r.Register("", always), criteria.ErrEmptyName), ShouldBeTrue)
			So(errors.Is(r.Register("nil", nil), criteria.ErrNilPredicate), ShouldBeTrue)
		})

		Convey("When looking up an unknown name", func() {
			_, ok := r.Lookup("missing")
			So(ok, ShouldBeFalse)
		})

		Convey("When the registry is nil", func() {
			var nilReg *criteria.Registry
			_, ok := nilReg.Lookup("anything")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestCompileCEL(t *testing.T) {
	Convey("Given CEL criteria", t, func() {
		Convey("When an expression inspects records", func() {
			p, err := criteria.CompileCEL(`records.exists(r, r.kind == "series" && r.points >= params.min)`)
			So(err, ShouldBeNil)

			yc := criteria.YearContext{
				Year:    2024,
				Records: []model.ActivityRecord{{Kind: model.KindSeries, Year: 2024, Points: pts(45)}},
				Params:  map[string]any{"min": 44.0},
			}

			Convey("Then it evaluates against the year context", func() {
				So(p(yc), ShouldBeTrue)
				yc.Params = map[string]any{"min": 46.0}
				So(p(yc), ShouldBeFalse)
			})
		})

		Convey("When an expression uses age", func() {
			p, err := criteria.CompileCEL(`hasAge && age >= 60`)
			So(err, ShouldBeNil)
			sixty := 60

			So(p(criteria.YearContext{Year: 2024, Age: &sixty}), ShouldBeTrue)
			So(p(criteria.YearContext{Year: 2024}), ShouldBeFalse)
		})

		Convey("When evaluation fails at runtime", func() {
			p, err := criteria.CompileCEL(`params.missing == 1`)
			So(err, ShouldBeNil)

			Convey("Then the year does not qualify", func() {
				So(p(criteria.YearContext{Year: 2024}), ShouldBeFalse)
			})
		})

		Convey("When the expression is invalid or not boolean", func() {
			_, err := criteria.CompileCEL(`year +`)
			So(errors.Is(err, criteria.ErrCompile), ShouldBeTrue)

			_, err = criteria.CompileCEL(`year + 1`)
			So(errors.Is(err, criteria.ErrCompile), ShouldBeTrue)
		})

		Convey("When registering a set of expressions", func() {
			r := criteria.NewRegistry()
			err := r.RegisterCEL(map[string]string{
				"even_year": `year % 2 == 0`,
				"adult":     `hasAge && age >= 18`,
			})
			So(err, ShouldBeNil)
			So(r.Names(), ShouldResemble, []string{"adult", "even_year"})

			p, _ := r.Lookup("even_year")
			So(p(criteria.YearContext{Year: 2024}), ShouldBeTrue)
			So(p(criteria.YearContext{Year: 2023}), ShouldBeFalse)
		})
	})
}
