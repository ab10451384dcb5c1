package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the salesboard namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "salesboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("dash"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "dash")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.customLabels["env"], ShouldEqual, "test")
			})

			Convey("And empty values should not override defaults", func() {
				m := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithPrometheusRegistry(prometheus.NewRegistry()))
				So(m.namespace, ShouldEqual, "salesboard")
				So(len(m.histogramBuckets), ShouldBeGreaterThan, 0)
			})

			Convey("And later changes to the caller's slices and maps should not leak in", func() {
				buckets := []float64{1, 2}
				labels := map[string]string{"sheet": "demo"}
				m := NewManager(WithHistogramBuckets(buckets), WithCustomLabels(labels), WithPrometheusRegistry(prometheus.NewRegistry()))
				buckets[0] = 99
				labels["sheet"] = "other"
				So(m.histogramBuckets, ShouldResemble, []float64{1, 2})
				So(m.customLabels["sheet"], ShouldEqual, "demo")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording dashboard requests", func() {
			before := testutil.ToFloat64(globalManager.dashboardRequests.WithLabelValues("agent", "ok"))
			RecordDashboardRequest("agent", "ok")
			RecordDashboardRequest("agent", "ok")

			Convey("Then the counter should increase", func() {
				after := testutil.ToFloat64(globalManager.dashboardRequests.WithLabelValues("agent", "ok"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording data quality issues", func() {
			before := testutil.ToFloat64(globalManager.dataQuality.WithLabelValues("Sales_Log", "invalid_date"))
			RecordDataQuality("Sales_Log", "invalid_date", 3)
			RecordDataQuality("Sales_Log", "invalid_date", 0)

			Convey("Then only positive counts should be added", func() {
				after := testutil.ToFloat64(globalManager.dataQuality.WithLabelValues("Sales_Log", "invalid_date"))
				So(after-before, ShouldEqual, 3)
			})
		})

		Convey("When updating source rows", func() {
			UpdateSourceRows("Sales_Agents", 12)

			Convey("Then the gauge should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.sourceRows.WithLabelValues("Sales_Agents")), ShouldEqual, 12)
			})
		})

		Convey("When recording the remaining metrics", func() {
			So(func() {
				RecordDashboardBuildLatency("manager", 12.5)
				RecordAnnouncement("ok")
				RecordSourceFetchLatency("memory", 1)
				RecordSourceFetchError("sheets")
				RecordHTTPRequest("dashboard", "GET", "200")
				RecordHTTPRequestDuration("dashboard", "GET", "200", 3)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("dashboard", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When reading the registry", func() {
			Convey("Then it should be the custom registry", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}
