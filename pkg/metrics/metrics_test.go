package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors use the namespace", func() {
				So(m, ShouldNotBeNil)
				m.classifications.WithLabelValues("java").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_classifications_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When core events are recorded", func() {
			before := testutil.ToFloat64(globalManager.classifications.WithLabelValues("design"))
			RecordClassification("design")

			Convey("Then counters advance", func() {
				So(testutil.ToFloat64(globalManager.classifications.WithLabelValues("design")), ShouldEqual, before+1)
			})
		})

		Convey("Then every recorder accepts input without panicking", func() {
			So(func() {
				RecordAnalysis("file", "java", 8)
				RecordQuestionSet("template", 5)
				RecordProviderCall("gemini", "questions", "ok", 120)
				RecordProviderFallback("transcribe")
				RecordJobSubmitted()
				RecordJobDuplicate()
				RecordJobFinished("completed")
				RecordHTTPRequest("/api/classify", "POST", "200")
				RecordHTTPRequestDuration("/api/classify", "POST", "200", 3)
				RecordAuthEvent("login", "ok")
				RecordStoreLatency("create_user", 0.4)
				UpdateQueueSize(1)
				UpdateQueueCapacity(10)
				UpdateQueueUtilization(0.1)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(0.2)
				UpdateWorkerCount(2)
				UpdateWorkerActiveCount(1)
				RecordWorkerProcessingLatency(12)
				RecordWorkerError()
				RecordErrorByComponent("api", "bad_request")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry exposes the interviewcoach namespace", func() {
			RecordJobSubmitted()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "interviewcoach_api_jobs_submitted_total")
		})
	})
}
