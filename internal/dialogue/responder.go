package dialogue

import (
	"context"
	"time"

	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/observability/metrics"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

type interactor interface {
	Interact(ctx context.Context, conversationID string, action Action) ([]Trace, error)
}

// Responder runs one interact round trip and adapts the result.
type Responder struct {
	client  interactor
	adapter *Adapter
	metrics *metrics.BotMetrics
	logger  *logging.Logger
}

// NewResponder wires a client to an adapter. metrics may be nil.
func NewResponder(client interactor, m *metrics.BotMetrics, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{
		client:  client,
		adapter: NewAdapter(logger),
		metrics: m,
		logger:  logger,
	}
}

// Respond sends action for conversationID and returns the rendered messages.
func (r *Responder) Respond(ctx context.Context, conversationID string, action Action) ([]messenger.Message, error) {
	start := time.Now()
	traces, err := r.client.Interact(ctx, conversationID, action)
	r.metrics.ObserveDialogueLatency(err, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	msgs, err := r.adapter.Adapt(traces)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("dialogue: adapted response",
		"conversation_id", conversationID,
		"action_type", action.Type,
		"traces", len(traces),
		"messages", len(msgs),
	)
	return msgs, nil
}
