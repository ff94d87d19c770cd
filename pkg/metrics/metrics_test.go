package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// find returns the metric family with the given fully qualified name.
func find(reg *prometheus.Registry, name string) *dto.MetricFamily {
	families, err := reg.Gather()
	if err != nil {
		return nil
	}
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then metrics use the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.registeredCalculators.Set(5)
				family := find(registry, "resicentral_calculators_registered")
				So(family, ShouldNotBeNil)
				So(family.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 5.0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("calc"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and labels follow the options", func() {
				manager.evaluations.WithLabelValues("curb65", "High").Inc()
				family := find(registry, "test_calc_evaluations_total")
				So(family, ShouldNotBeNil)
				labels := map[string]string{}
				for _, l := range family.GetMetric()[0].GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				So(labels, ShouldResemble, map[string]string{
					"env": "test", "calculator": "curb65", "risk_category": "High",
				})
			})

			Convey("Then histograms use the custom buckets", func() {
				manager.evaluationLatency.WithLabelValues("glasgow").Observe(0.3)
				family := find(registry, "test_calc_evaluation_latency_milliseconds")
				So(family, ShouldNotBeNil)
				h := family.GetMetric()[0].GetHistogram()
				So(h.GetSampleCount(), ShouldEqual, uint64(1))
				So(h.GetBucket()[0].GetUpperBound(), ShouldEqual, 0.1)
				So(h.GetBucket()[1].GetCumulativeCount(), ShouldEqual, uint64(1))
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "resicentral")
				So(manager.subsystem, ShouldEqual, "calculators")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording evaluation metrics", func() {
			So(func() {
				RecordEvaluation("curb65", "Low")
				RecordEvaluation("curb65", "High")
				RecordValidationFailure("curb65")
				RecordEvaluationError("curb65", "validation")
				RecordEvaluationError("apache2", "not_found")
				RecordEvaluationLatency("curb65", 0.2)
				UpdateRegisteredCalculators(5)
			}, ShouldNotPanic)

			Convey("Then they are exposed on the custom registry", func() {
				So(find(GetRegistry(), "resicentral_calculators_evaluations_total"), ShouldNotBeNil)
				So(find(GetRegistry(), "resicentral_calculators_validation_failures_total"), ShouldNotBeNil)
				So(find(GetRegistry(), "resicentral_calculators_evaluation_errors_total"), ShouldNotBeNil)
			})
		})

		Convey("When recording history metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordHistoryAppend()
					RecordHistoryError("append")
					UpdateHistoryEntries(12)
					UpdateHistoryUsers(3)
					RecordHistoryQueryLatency(1.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording recorder metrics", func() {
			UpdateRecorderQueueCapacity(64)
			UpdateRecorderQueueSize(3)
			RecordRecorderEnqueue()
			RecordRecorderDrop("full")
			UpdateRecorderWorkers(2)
			RecordRecorderWriteLatency(0.8)
			RecordIdempotentReplay()

			Convey("Then the gauges hold the last value", func() {
				family := find(GetRegistry(), "resicentral_calculators_recorder_queue_capacity")
				So(family, ShouldNotBeNil)
				So(family.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 64.0)
				So(find(GetRegistry(), "resicentral_calculators_recorder_dropped_total"), ShouldNotBeNil)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordHTTPRequest("/calculators", "GET", "200")
					RecordHTTPRequestDuration("/calculators", "GET", "200", 5.0)
					RecordErrorByEndpoint("/calculators/{key}/evaluate", "POST", "validation")
					RecordErrorByComponent("history", "redis")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.4)
				}, ShouldNotPanic)
			})
		})
	})
}
