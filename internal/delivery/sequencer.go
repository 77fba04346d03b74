// Package delivery paces outbound replies so a batch reads like a natural
// chat instead of arriving all at once.
package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/observability/metrics"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

// DefaultStagger is the gap between consecutive messages of a batch.
const DefaultStagger = 2 * time.Second

// Transport performs the platform send call.
type Transport interface {
	SendMessage(ctx context.Context, recipientID string, msg messenger.Message) error
}

// Scheduler runs f once after d. Scheduled work is never cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithScheduler replaces the time.AfterFunc scheduler.
func WithScheduler(s Scheduler) Option {
	return func(seq *Sequencer) {
		if s != nil {
			seq.scheduler = s
		}
	}
}

// WithStagger overrides DefaultStagger.
func WithStagger(d time.Duration) Option {
	return func(seq *Sequencer) {
		if d >= 0 {
			seq.stagger = d
		}
	}
}

// Sequencer schedules every message of a reply with its delay and returns
// immediately. Only scheduling order is guaranteed; sends for different
// events may interleave.
type Sequencer struct {
	transport Transport
	scheduler Scheduler
	stagger   time.Duration
	metrics   *metrics.BotMetrics
	logger    *logging.Logger

	wg sync.WaitGroup
}

func NewSequencer(transport Transport, m *metrics.BotMetrics, logger *logging.Logger, opts ...Option) *Sequencer {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Sequencer{
		transport: transport,
		scheduler: timerScheduler{},
		stagger:   DefaultStagger,
		metrics:   m,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver schedules reply for recipientID. Batch element i goes out i
// staggers after the first; a message's own Delay always wins. The delay is
// stripped before the transport sees the message.
func (s *Sequencer) Deliver(ctx context.Context, recipientID string, reply bot.Reply) {
	if reply.IsEmpty() {
		return
	}
	// Sends outlive the webhook request that produced them.
	ctx = context.WithoutCancel(ctx)

	for i, msg := range reply.Messages {
		var delay time.Duration
		if reply.Batch {
			delay = time.Duration(i) * s.stagger
		}
		if msg.Delay != nil {
			delay = *msg.Delay
		}
		out := msg.WithoutDelay()

		s.wg.Add(1)
		s.scheduler.AfterFunc(delay, func() {
			defer s.wg.Done()
			s.send(ctx, recipientID, out)
		})
	}
}

func (s *Sequencer) send(ctx context.Context, recipientID string, msg messenger.Message) {
	err := s.transport.SendMessage(ctx, recipientID, msg)
	s.metrics.ObserveOutbound(string(msg.Kind()), err)
	if err != nil {
		s.logger.Error("delivery: send failed",
			"recipient_id", recipientID,
			"kind", msg.Kind(),
			"error", err,
		)
		return
	}
	s.logger.Debug("delivery: sent", "recipient_id", recipientID, "kind", msg.Kind())
}

// Wait blocks until every scheduled send has run. It does not cancel
// anything, so shutdown may take up to the longest pending delay.
func (s *Sequencer) Wait() {
	s.wg.Wait()
}
