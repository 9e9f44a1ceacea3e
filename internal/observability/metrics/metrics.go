package metrics

import "github.com/prometheus/client_golang/prometheus"

// TurnMetrics exposes counters for the turn pipeline.
type TurnMetrics struct {
	turnsTotal           *prometheus.CounterVec
	capturesTotal        prometheus.Counter
	captureFailures      prometheus.Counter
	deflectionsTotal     prometheus.Counter
	collaboratorFailures *prometheus.CounterVec
}

func NewTurnMetrics(reg prometheus.Registerer) *TurnMetrics {
	m := &TurnMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autostream",
			Subsystem: "agent",
			Name:      "turns_total",
			Help:      "Total processed turns by routed intent",
		}, []string{"intent"}),
		capturesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "autostream",
			Subsystem: "agent",
			Name:      "lead_captures_total",
			Help:      "Total successful lead capture invocations",
		}),
		captureFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "autostream",
			Subsystem: "agent",
			Name:      "lead_capture_failures_total",
			Help:      "Total failed lead capture invocations",
		}),
		deflectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "autostream",
			Subsystem: "agent",
			Name:      "edit_deflections_total",
			Help:      "Total post-capture edit requests deflected to a human channel",
		}),
		collaboratorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autostream",
			Subsystem: "agent",
			Name:      "collaborator_failures_total",
			Help:      "Total collaborator call failures or timeouts",
		}, []string{"collaborator"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.capturesTotal, m.captureFailures, m.deflectionsTotal, m.collaboratorFailures)
	return m
}

func (m *TurnMetrics) ObserveTurn(intent string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
}

func (m *TurnMetrics) ObserveCapture(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.capturesTotal.Inc()
	} else {
		m.captureFailures.Inc()
	}
}

func (m *TurnMetrics) ObserveDeflection() {
	if m == nil {
		return
	}
	m.deflectionsTotal.Inc()
}

func (m *TurnMetrics) ObserveCollaboratorFailure(collaborator string) {
	if m == nil {
		return
	}
	m.collaboratorFailures.WithLabelValues(collaborator).Inc()
}
