// Package app glues the webhook, router, session store and sequencer into the
// per-event processing pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/events"
	"github.com/wolfman30/igdm-router/internal/observability/metrics"
	"github.com/wolfman30/igdm-router/internal/session"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

const processedProvider = "instagram"

// Router routes one event for one session.
type Router interface {
	Route(ctx context.Context, ev bot.InboundEvent, user *session.Session) bot.Reply
}

// Deliverer schedules a reply. It must not block on the sends.
type Deliverer interface {
	Deliver(ctx context.Context, recipientID string, reply bot.Reply)
}

// ProfileLookup resolves a user's display name; "" when unknown.
type ProfileLookup interface {
	DisplayName(ctx context.Context, userID string) string
}

// Deps are the pipeline collaborators. Processed and Profiles are optional.
type Deps struct {
	Router    Router
	Sessions  session.Store
	Locker    *session.Locker
	Processed events.ProcessedStore
	Profiles  ProfileLookup
	Deliverer Deliverer
	Metrics   *metrics.BotMetrics
	Logger    *logging.Logger
}

// Pipeline processes inbound events: de-dup, per-user lock, session load,
// route, save, deliver.
type Pipeline struct {
	deps Deps
	wg   sync.WaitGroup
}

func NewPipeline(deps Deps) (*Pipeline, error) {
	if deps.Router == nil || deps.Sessions == nil || deps.Deliverer == nil {
		return nil, errors.New("app: router, sessions and deliverer are required")
	}
	if deps.Locker == nil {
		deps.Locker = session.NewLocker()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	return &Pipeline{deps: deps}, nil
}

// Enqueue processes ev on its own goroutine so the webhook can return.
func (p *Pipeline) Enqueue(ctx context.Context, ev bot.InboundEvent) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.Process(ctx, ev); err != nil {
			p.deps.Logger.Error("app: event processing failed",
				"sender_id", ev.SenderID,
				"message_id", ev.MessageID,
				"kind", ev.Kind,
				"error", err,
			)
		}
	}()
}

// Process handles one event synchronously.
func (p *Pipeline) Process(ctx context.Context, ev bot.InboundEvent) error {
	d := p.deps
	d.Metrics.ObserveInbound(string(ev.Kind))

	if ev.IsEcho {
		d.Logger.Debug("app: echo discarded", "message_id", ev.MessageID)
		return nil
	}
	if ev.SenderID == "" {
		return errors.New("app: event has no sender")
	}

	if d.Processed != nil && ev.MessageID != "" {
		fresh, err := d.Processed.MarkProcessed(ctx, processedProvider, ev.MessageID)
		if err != nil {
			d.Logger.Warn("app: de-dup check failed, processing anyway", "message_id", ev.MessageID, "error", err)
		} else if !fresh {
			d.Logger.Info("app: duplicate delivery skipped", "message_id", ev.MessageID, "sender_id", ev.SenderID)
			return nil
		}
	}

	return d.Locker.WithLock(ev.SenderID, func() error {
		user, err := p.loadSession(ctx, ev.SenderID)
		if err != nil {
			return err
		}

		reply := d.Router.Route(ctx, ev, user)

		if err := d.Sessions.Save(ctx, user); err != nil {
			d.Logger.Error("app: save session failed", "sender_id", ev.SenderID, "error", err)
		}
		d.Deliverer.Deliver(ctx, ev.SenderID, reply)
		return nil
	})
}

func (p *Pipeline) loadSession(ctx context.Context, userID string) (*session.Session, error) {
	user, err := p.deps.Sessions.Get(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("app: load session: %w", err)
	}

	var name string
	if p.deps.Profiles != nil {
		name = p.deps.Profiles.DisplayName(ctx, userID)
	}
	p.deps.Logger.Info("app: new user", "sender_id", userID, "user_name", name)
	return session.New(userID, name), nil
}

// Wait blocks until every enqueued event has been processed.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
