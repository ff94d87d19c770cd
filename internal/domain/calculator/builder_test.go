package calculator_test

import (
	"errors"
	"testing"

	"github.com/resicentral/resicentral/internal/domain/calculator"
	. "github.com/smartystreets/goconvey/convey"
)

func twoPoint() *calculator.Builder {
	return calculator.New("demo").
		Name("Demo").
		Category("Test").
		Boolean("a", "A").
		Boolean("b", "B").
		Terms(
			calculator.Points("A", 1, calculator.IsTrue("a")),
			calculator.Points("B", 1, calculator.IsTrue("b")),
		).
		Range(0, 2)
}

func TestBuilder(t *testing.T) {
	Convey("Given a builder for a two-point rule", t, func() {
		Convey("When the bands tile the range", func() {
			def, err := twoPoint().
				Band(0, 1, calculator.RiskLow, "low", "").
				Band(1, 2, calculator.RiskHigh, "high", "").
				Build()

			Convey("Then the definition is built", func() {
				So(err, ShouldBeNil)
				So(def.Key(), ShouldEqual, "demo")
				So(len(def.Bands()), ShouldEqual, 2)
			})

			Convey("Then the closed last band includes the maximum", func() {
				band, err := def.Interpret(2)
				So(err, ShouldBeNil)
				So(band.Risk, ShouldEqual, calculator.RiskHigh)
			})

			Convey("Then a score above the range is an internal consistency error", func() {
				_, err := def.Interpret(3)
				var ierr *calculator.InternalConsistencyError
				So(errors.As(err, &ierr), ShouldBeTrue)
				So(ierr.Calculator, ShouldEqual, "demo")
				So(ierr.Max, ShouldEqual, 2.0)
			})

			Convey("Then a score below the range is an internal consistency error", func() {
				_, err := def.Interpret(-0.5)
				So(err, ShouldHaveSameTypeAs, &calculator.InternalConsistencyError{})
			})
		})

		Convey("When the bands leave a gap", func() {
			_, err := twoPoint().
				Band(0, 1, calculator.RiskLow, "low", "").
				Band(1.5, 2, calculator.RiskHigh, "high", "").
				Build()

			Convey("Then the build fails", func() {
				So(errors.Is(err, calculator.ErrInvalidDefinition), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "not contiguous")
			})
		})

		Convey("When the bands overlap", func() {
			_, err := twoPoint().
				Band(0, 1.5, calculator.RiskLow, "low", "").
				Band(1, 2, calculator.RiskHigh, "high", "").
				Build()

			Convey("Then the build fails", func() {
				So(errors.Is(err, calculator.ErrInvalidDefinition), ShouldBeTrue)
			})
		})

		Convey("When the last band stops short of the maximum", func() {
			_, err := twoPoint().
				Band(0, 1, calculator.RiskLow, "low", "").
				Band(1, 1.5, calculator.RiskHigh, "high", "").
				Build()

			Convey("Then the build fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "last band ends at 1.5")
			})
		})

		Convey("When a band has no risk category or text", func() {
			_, err := twoPoint().
				Band(0, 2, calculator.Risk(0), "", "").
				Build()

			Convey("Then both problems are reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid risk category")
				So(err.Error(), ShouldContainSubstring, "missing interpretation")
			})
		})

		Convey("When a criterion is declared twice", func() {
			_, err := twoPoint().
				Boolean("a", "A again").
				Band(0, 2, calculator.RiskLow, "low", "").
				Build()

			Convey("Then the build fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, `duplicate criterion "a"`)
			})
		})

		Convey("When a term reads an option value from a boolean", func() {
			_, err := twoPoint().
				Terms(calculator.OptionValue("A", "a")).
				Band(0, 2, calculator.RiskLow, "low", "").
				Build()

			Convey("Then the build fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "is not an enum criterion")
			})
		})

		Convey("When nothing but a key is declared", func() {
			_, err := calculator.New("empty").Build()

			Convey("Then every missing part is reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "empty name")
				So(err.Error(), ShouldContainSubstring, "no criteria")
				So(err.Error(), ShouldContainSubstring, "score range not declared")
			})
		})

		Convey("When MustBuild is used on an invalid declaration", func() {
			Convey("Then it panics", func() {
				So(func() { calculator.New("").MustBuild() }, ShouldPanic)
			})
		})

		Convey("When an enum repeats an option value", func() {
			_, err := calculator.New("enum").Name("Enum").Category("Test").
				Enum("e", "E", []calculator.Option{{Value: 1, Label: "x"}, {Value: 1, Label: "y"}}).
				Terms(calculator.OptionValue("E", "e")).
				Range(1, 1).
				Band(1, 1, calculator.RiskLow, "only", "").
				Build()

			Convey("Then the build fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "duplicate option value 1")
			})
		})
	})
}

func TestDefinitionIsImmutable(t *testing.T) {
	Convey("Given the Glasgow definition", t, func() {
		gcs := calculator.Glasgow()

		Convey("When a caller edits the returned criteria", func() {
			criteria := gcs.Criteria()
			criteria[0].Options[0].Label = "changed"
			criteria[0].Max = 99

			Convey("Then the definition is unchanged", func() {
				So(gcs.Criteria()[0].Options[0].Label, ShouldEqual, "Ninguna")
			})
		})

		Convey("When a caller edits the returned bands", func() {
			bands := gcs.Bands()
			bands[0].Risk = calculator.RiskLow

			Convey("Then interpretation is unchanged", func() {
				band, err := gcs.Interpret(3)
				So(err, ShouldBeNil)
				So(band.Risk, ShouldEqual, calculator.RiskSevere)
			})
		})
	})
}

func TestRisk(t *testing.T) {
	Convey("Given the risk categories", t, func() {
		Convey("Then they are ordered by severity", func() {
			So(calculator.RiskLow, ShouldBeLessThan, calculator.RiskModerate)
			So(calculator.RiskModerate, ShouldBeLessThan, calculator.RiskHigh)
			So(calculator.RiskHigh, ShouldBeLessThan, calculator.RiskSevere)
		})

		Convey("Then tags round-trip through text", func() {
			b, err := calculator.RiskModerate.MarshalText()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "Moderate")

			var r calculator.Risk
			So(r.UnmarshalText([]byte("severe")), ShouldBeNil)
			So(r, ShouldEqual, calculator.RiskSevere)
		})

		Convey("Then an unknown tag is rejected", func() {
			_, err := calculator.ParseRisk("Alto")
			So(err, ShouldNotBeNil)
			_, err = calculator.Risk(9).MarshalText()
			So(err, ShouldNotBeNil)
		})
	})
}
