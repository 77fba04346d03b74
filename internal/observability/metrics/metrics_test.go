package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBotMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.ObserveInbound("text")
	m.ObserveInbound("text")
	m.ObserveReply("welcome", "ok")
	m.ObserveOutbound("quick_reply", nil)
	m.ObserveOutbound("quick_reply", errors.New("boom"))
	m.ObserveDialogueLatency(nil, 0.25)

	if got := testutil.ToFloat64(m.inboundTotal.WithLabelValues("text")); got != 2 {
		t.Fatalf("inbound text = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.outboundTotal.WithLabelValues("quick_reply", "failed")); got != 1 {
		t.Fatalf("outbound failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.outboundTotal.WithLabelValues("quick_reply", "sent")); got != 1 {
		t.Fatalf("outbound sent = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.dialogueLatency); got != 1 {
		t.Fatalf("dialogue latency series = %d, want 1", got)
	}
}

func TestBotMetricsNilSafe(t *testing.T) {
	var m *BotMetrics
	m.ObserveInbound("postback")
	m.ObserveReply("care", "error")
	m.ObserveOutbound("text", nil)
	m.ObserveDialogueLatency(errors.New("x"), 0.1)
}
