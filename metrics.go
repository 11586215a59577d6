package elemental

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for registries and their components.
// A nil *Metrics records nothing.
type Metrics struct {
	componentsRegistered prometheus.Counter
	listenersRegistered  prometheus.Counter
	listenersSkipped     prometheus.Counter
	eventsRaised         *prometheus.CounterVec
	renders              *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. It
// returns nil if reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		componentsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "elemental_components_registered_total",
			Help: "Total number of component types registered",
		}),
		listenersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "elemental_listeners_registered_total",
			Help: "Total number of event listeners subscribed",
		}),
		listenersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "elemental_listeners_skipped_total",
			Help: "Total number of duplicate event listener registrations skipped",
		}),
		eventsRaised: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elemental_events_raised_total",
				Help: "Total number of events raised by components",
			},
			[]string{"custom"},
		),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elemental_renders_total",
				Help: "Total number of component renders",
			},
			[]string{"tag"},
		),
	}

	reg.MustRegister(
		m.componentsRegistered,
		m.listenersRegistered,
		m.listenersSkipped,
		m.eventsRaised,
		m.renders,
	)
	return m
}

func (m *Metrics) componentRegistered() {
	if m == nil {
		return
	}
	m.componentsRegistered.Inc()
}

func (m *Metrics) listenerRegistered() {
	if m == nil {
		return
	}
	m.listenersRegistered.Inc()
}

func (m *Metrics) listenerSkipped() {
	if m == nil {
		return
	}
	m.listenersSkipped.Inc()
}

func (m *Metrics) eventRaised(custom bool) {
	if m == nil {
		return
	}
	m.eventsRaised.WithLabelValues(strconv.FormatBool(custom)).Inc()
}

func (m *Metrics) rendered(tag string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(tag).Inc()
}
