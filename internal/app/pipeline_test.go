package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/delivery"
	"github.com/wolfman30/igdm-router/internal/dialogue"
	"github.com/wolfman30/igdm-router/internal/events"
	"github.com/wolfman30/igdm-router/internal/messenger"
	"github.com/wolfman30/igdm-router/internal/session"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

type stubResponder struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubResponder) Respond(_ context.Context, conversationID string, action dialogue.Action) ([]messenger.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, conversationID+"|"+action.Type)
	return []messenger.Message{messenger.Text("Welcome back!")}, nil
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []messenger.Message
	to   []string
}

func (r *recordingTransport) SendMessage(_ context.Context, recipientID string, msg messenger.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	r.to = append(r.to, recipientID)
	return nil
}

type fixedProfiles map[string]string

func (f fixedProfiles) DisplayName(_ context.Context, id string) string { return f[id] }

type recordingScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	f()
}

type harness struct {
	pipeline  *Pipeline
	sessions  *session.MemoryStore
	responder *stubResponder
	transport *recordingTransport
	scheduler *recordingScheduler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sessions:  session.NewMemoryStore(),
		responder: &stubResponder{},
		transport: &recordingTransport{},
		scheduler: &recordingScheduler{},
	}
	router := bot.NewRouter(h.responder, bot.Handlers{}, nil, nil, logging.Nop())
	seq := delivery.NewSequencer(h.transport, nil, logging.Nop(), delivery.WithScheduler(h.scheduler))
	p, err := NewPipeline(Deps{
		Router:    router,
		Sessions:  h.sessions,
		Processed: events.NewMemoryProcessedStore(time.Hour),
		Profiles:  fixedProfiles{"igsid_1": "Peter"},
		Deliverer: seq,
		Logger:    logging.Nop(),
	})
	require.NoError(t, err)
	h.pipeline = p
	return h
}

func TestPipelineHiThereEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.pipeline.Process(ctx, bot.InboundEvent{
		Kind:      bot.EventText,
		SenderID:  "igsid_1",
		MessageID: "mid_1",
		Text:      "Hi there",
	})
	require.NoError(t, err)

	user, err := h.sessions.Get(ctx, "igsid_1")
	require.NoError(t, err)
	assert.Equal(t, "Peter", user.Name)
	require.NotEmpty(t, user.ConversationID)

	require.Len(t, h.responder.calls, 1)
	assert.Equal(t, user.ConversationID+"|launch", h.responder.calls[0])

	assert.Equal(t, []time.Duration{0}, h.scheduler.delays)
	require.Len(t, h.transport.sent, 1)
	assert.Equal(t, "Welcome back!", h.transport.sent[0].Text)
	assert.Equal(t, "igsid_1", h.transport.to[0])
}

func TestPipelineWelcomeBatchIsStaggered(t *testing.T) {
	h := newHarness(t)
	err := h.pipeline.Process(context.Background(), bot.InboundEvent{
		Kind:     bot.EventPostback,
		SenderID: "igsid_1",
		Postback: &bot.Postback{Payload: bot.PayloadGetStarted},
	})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{0, 2 * time.Second, 4 * time.Second}, h.scheduler.delays)
	require.Len(t, h.transport.sent, 3)
	assert.Contains(t, h.transport.sent[0].Text, "Peter")
}

func TestPipelineSkipsDuplicatesAndEchoes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ev := bot.InboundEvent{Kind: bot.EventText, SenderID: "igsid_1", MessageID: "mid_1", Text: "hello"}

	require.NoError(t, h.pipeline.Process(ctx, ev))
	require.NoError(t, h.pipeline.Process(ctx, ev))
	require.NoError(t, h.pipeline.Process(ctx, bot.InboundEvent{Kind: bot.EventText, SenderID: "page", MessageID: "mid_2", Text: "hi", IsEcho: true}))

	assert.Len(t, h.responder.calls, 1)
	assert.Len(t, h.transport.sent, 1)
	_, err := h.sessions.Get(ctx, "page")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestPipelineKeepsConversationAcrossEvents(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.pipeline.Process(ctx, bot.InboundEvent{Kind: bot.EventText, SenderID: "igsid_1", MessageID: "a", Text: "get started"}))
	require.NoError(t, h.pipeline.Process(ctx, bot.InboundEvent{Kind: bot.EventQuickReply, SenderID: "igsid_1", MessageID: "b", QuickReplyPayload: "path-xyz"}))

	require.Len(t, h.responder.calls, 2)
	user, err := h.sessions.Get(ctx, "igsid_1")
	require.NoError(t, err)
	assert.Equal(t, user.ConversationID+"|path-xyz", h.responder.calls[1])
}

func TestPipelineEnqueueAndWait(t *testing.T) {
	h := newHarness(t)
	for i, id := range []string{"u1", "u2", "u3", "u1"} {
		h.pipeline.Enqueue(context.Background(), bot.InboundEvent{
			Kind:      bot.EventAttachment,
			SenderID:  id,
			MessageID: string(rune('a' + i)),
		})
	}
	h.pipeline.Wait()

	h.transport.mu.Lock()
	defer h.transport.mu.Unlock()
	assert.Len(t, h.transport.sent, 4)
}

type failingStore struct{ session.Store }

func (failingStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("redis: connection refused")
}

func TestPipelineSessionLoadFailure(t *testing.T) {
	transport := &recordingTransport{}
	p, err := NewPipeline(Deps{
		Router:    bot.NewRouter(&stubResponder{}, bot.Handlers{}, nil, nil, logging.Nop()),
		Sessions:  failingStore{},
		Deliverer: delivery.NewSequencer(transport, nil, logging.Nop(), delivery.WithScheduler(&recordingScheduler{})),
		Logger:    logging.Nop(),
	})
	require.NoError(t, err)

	err = p.Process(context.Background(), bot.InboundEvent{Kind: bot.EventText, SenderID: "u", Text: "hi"})
	assert.ErrorContains(t, err, "connection refused")
	assert.Empty(t, transport.sent)
}

func TestNewPipelineValidates(t *testing.T) {
	_, err := NewPipeline(Deps{})
	assert.Error(t, err)
}
