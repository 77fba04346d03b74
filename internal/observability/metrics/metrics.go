package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the DM routing pipeline.
type BotMetrics struct {
	inboundTotal    *prometheus.CounterVec
	replyTotal      *prometheus.CounterVec
	outboundTotal   *prometheus.CounterVec
	dialogueLatency *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "igdm",
			Subsystem: "router",
			Name:      "inbound_events_total",
			Help:      "Inbound webhook events by classified kind",
		}, []string{"kind"}),
		replyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "igdm",
			Subsystem: "router",
			Name:      "replies_total",
			Help:      "Routed replies by handler family and outcome",
		}, []string{"family", "outcome"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "igdm",
			Subsystem: "delivery",
			Name:      "outbound_total",
			Help:      "Outbound send API calls by message kind and status",
		}, []string{"kind", "status"}),
		dialogueLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "igdm",
			Subsystem: "dialogue",
			Name:      "interact_latency_seconds",
			Help:      "Latency of Dialog Manager interact calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.replyTotal, m.outboundTotal, m.dialogueLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(kind string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind).Inc()
}

func (m *BotMetrics) ObserveReply(family, outcome string) {
	if m == nil {
		return
	}
	m.replyTotal.WithLabelValues(family, outcome).Inc()
}

func (m *BotMetrics) ObserveOutbound(kind string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.outboundTotal.WithLabelValues(kind, status).Inc()
}

func (m *BotMetrics) ObserveDialogueLatency(err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.dialogueLatency.WithLabelValues(outcome).Observe(seconds)
}
