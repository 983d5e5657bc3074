package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func gathered(reg *prometheus.Registry, name string) *dto.MetricFamily {
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
		Convey("When creating with a custom registry and options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("reveal"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.sessionsGenerated.Inc()
				f := gathered(registry, "test_reveal_generated_total")
				So(f, ShouldNotBeNil)
				So(f.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1.0)
				So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "draftreveal")
				So(manager.subsystem, ShouldEqual, "session")
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Recording functions never panic", func() {
			So(func() {
				RecordSessionGenerated(4)
				RecordReset()
				UpdateCursor(2)
				RecordTransition("reveal", OutcomeApplied)
				RecordTransition("advance", OutcomeIgnored)
				RecordReveal(TierDramatic)
				RecordReveal(TierStandard)
				RecordCountdownTick()
				RecordCelebration()
				UpdatePendingTimers(3)
				RecordEntropyFallback()
				RecordFocusRequest(FocusScrolled)
				RecordCueDispatched("card_reveal", 0.4)
				RecordCueDropped()
				UpdateQueueSize(1)
				UpdateQueueCapacity(64)
				UpdateStreamClients(2)
				RecordDuplicateInput()
				RecordHTTPRequest("/session", "POST", "201")
				RecordHTTPRequestDuration("/session", "POST", "201", 3)
				RecordError("api", "bad_request")
			}, ShouldNotPanic)
		})

		Convey("The transitions counter is labelled by outcome", func() {
			RecordTransition("start", OutcomeIgnored)
			f := gathered(GetRegistry(), "draftreveal_session_transitions_total")
			So(f, ShouldNotBeNil)
			found := false
			for _, m := range f.GetMetric() {
				labels := map[string]string{}
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				if labels["transition"] == "start" && labels["outcome"] == OutcomeIgnored {
					found = m.GetCounter().GetValue() >= 1
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("Gauges reflect the last update", func() {
			UpdateStreamClients(5)
			f := gathered(GetRegistry(), "draftreveal_session_stream_clients")
			So(f, ShouldNotBeNil)
			So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 5.0)
		})
	})
}
