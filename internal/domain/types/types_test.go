package types_test

import (
	"errors"
	"testing"

	"github.com/resicentral/resicentral/internal/domain/calculator"
	types "github.com/resicentral/resicentral/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummaries(t *testing.T) {
	Convey("Given the registry listing", t, func() {
		defs := calculator.Builtin().List(calculator.Filter{Category: calculator.CategoryRespiratory})

		Convey("When building summaries", func() {
			rows := types.Summaries(defs)

			Convey("Then each row carries the listing fields", func() {
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Key, ShouldEqual, "curb65")
				So(rows[0].Name, ShouldEqual, "CURB-65")
				So(rows[0].Category, ShouldEqual, calculator.CategoryRespiratory)
			})
		})
	})
}

func TestDetailOf(t *testing.T) {
	Convey("Given the CURB-65 definition", t, func() {
		detail := types.DetailOf(calculator.CURB65())

		Convey("Then the score range and reference are exposed", func() {
			So(detail.MinScore, ShouldEqual, 0.0)
			So(detail.MaxScore, ShouldEqual, 5.0)
			So(detail.Reference, ShouldContainSubstring, "Thorax")
		})

		Convey("Then integer fields carry both bounds, zero included", func() {
			var rr types.Field
			for _, f := range detail.Fields {
				if f.Key == "rr" {
					rr = f
				}
			}
			So(rr.Type, ShouldEqual, "integer")
			So(rr.Required, ShouldBeTrue)
			So(rr.Min, ShouldNotBeNil)
			So(*rr.Min, ShouldEqual, 0.0)
			So(*rr.Max, ShouldEqual, 100.0)
		})

		Convey("Then boolean fields are optional and unbounded", func() {
			So(detail.Fields[0].Key, ShouldEqual, "confusion")
			So(detail.Fields[0].Type, ShouldEqual, "boolean")
			So(detail.Fields[0].Required, ShouldBeFalse)
			So(detail.Fields[0].Min, ShouldBeNil)
		})

		Convey("Then only the last band is closed", func() {
			So(detail.Bands[0].Interval, ShouldEqual, "[0, 1)")
			So(detail.Bands[len(detail.Bands)-1].Interval, ShouldEqual, "[4, 5]")
			So(detail.Bands[2].Risk, ShouldEqual, "Moderate")
		})
	})

	Convey("Given the Glasgow definition", t, func() {
		detail := types.DetailOf(calculator.Glasgow())

		Convey("Then enum fields list their options", func() {
			So(detail.Fields[0].Type, ShouldEqual, "enum")
			So(detail.Fields[0].Options, ShouldHaveLength, 4)
			So(detail.Fields[0].Options[3].Label, ShouldEqual, "Espontánea")
		})
	})
}

func TestFieldErrors(t *testing.T) {
	Convey("Given a CURB-65 input with an out-of-range age", t, func() {
		_, err := calculator.CURB65().Evaluate(map[string]any{"rr": 20, "sbp": 120, "dbp": 80, "age": 200})
		var verr *calculator.ValidationError
		So(errors.As(err, &verr), ShouldBeTrue)

		Convey("When flattening it", func() {
			fields := types.FieldErrors(verr)

			Convey("Then each problem keeps its field and message", func() {
				So(fields, ShouldHaveLength, 1)
				So(fields[0].Field, ShouldEqual, "age")
				So(fields[0].Message, ShouldEqual, "age: 200 exceeds maximum 120")
			})
		})
	})
}
