package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/resicentral/resicentral/internal/domain/calculator"
	model "github.com/resicentral/resicentral/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestCalculation(t *testing.T) {
	convey.Convey("Given a Glasgow result", t, func() {
		res, err := calculator.Glasgow().Evaluate(map[string]any{"eye": 4, "verbal": 5, "motor": 6})
		convey.So(err, convey.ShouldBeNil)
		at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.FixedZone("CLT", -3*3600))

		convey.Convey("When wrapping it in a calculation", func() {
			c := model.NewCalculation("resident-1", res, at)

			convey.Convey("Then it gets a UUID and a UTC timestamp", func() {
				_, err := uuid.Parse(c.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.UserID, convey.ShouldEqual, "resident-1")
				convey.So(c.Calculator, convey.ShouldEqual, "glasgow")
				convey.So(c.CreatedAt.Location(), convey.ShouldEqual, time.UTC)
				convey.So(c.CreatedAt.Equal(at), convey.ShouldBeTrue)
				convey.So(c.Anonymous(), convey.ShouldBeFalse)
			})

			convey.Convey("Then two calculations never share an ID", func() {
				other := model.NewCalculation("resident-1", res, at)
				convey.So(other.ID, convey.ShouldNotEqual, c.ID)
			})
		})

		convey.Convey("When the calculation has no user", func() {
			c := model.NewCalculation("", res, at)

			convey.Convey("Then it is anonymous", func() {
				convey.So(c.Anonymous(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When encoding it as JSON", func() {
			b, err := json.Marshal(model.NewCalculation("resident-1", res, at))
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the risk category is the locale-neutral tag", func() {
				var decoded map[string]any
				convey.So(json.Unmarshal(b, &decoded), convey.ShouldBeNil)
				result := decoded["result"].(map[string]any)
				convey.So(result["risk_category"], convey.ShouldEqual, "Low")
				convey.So(result["score"], convey.ShouldEqual, 15.0)
			})

			convey.Convey("Then it decodes back with the same risk", func() {
				var back model.Calculation
				convey.So(json.Unmarshal(b, &back), convey.ShouldBeNil)
				convey.So(back.Result.Risk, convey.ShouldEqual, calculator.RiskLow)
				convey.So(back.Result.Breakdown, convey.ShouldResemble, res.Breakdown)
			})
		})
	})
}
