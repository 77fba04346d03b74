package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpmiddleware "github.com/wolfman30/igdm-router/internal/http/middleware"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

type stubWebhook struct {
	verifications int
	deliveries    int
}

func (s *stubWebhook) HandleVerification(w http.ResponseWriter, r *http.Request) {
	s.verifications++
	w.Write([]byte(r.URL.Query().Get("hub.challenge")))
}

func (s *stubWebhook) HandleWebhook(w http.ResponseWriter, _ *http.Request) {
	s.deliveries++
	w.Write([]byte("EVENT_RECEIVED"))
}

func newTestRouter(t *testing.T, limiter *httpmiddleware.RateLimiter) (http.Handler, *stubWebhook) {
	t.Helper()
	hook := &stubWebhook{}
	return New(&Config{
		Logger:  logging.Nop(),
		Webhook: hook,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("# metrics"))
		}),
		RateLimiter: limiter,
	}), hook
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "# metrics") {
		t.Fatalf("unexpected metrics response %d %q", rr.Code, rr.Body.String())
	}
}

func TestRouterWebhookRoutes(t *testing.T) {
	router, hook := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/webhook?hub.challenge=42", nil))
	if rr.Body.String() != "42" {
		t.Fatalf("expected challenge echo, got %q", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}")))
	if rr.Body.String() != "EVENT_RECEIVED" {
		t.Fatalf("unexpected webhook body %q", rr.Body.String())
	}

	if hook.verifications != 1 || hook.deliveries != 1 {
		t.Fatalf("verifications=%d deliveries=%d", hook.verifications, hook.deliveries)
	}
}

func TestRouterWebhookMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/webhook", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestRouterWebhookRateLimited(t *testing.T) {
	router, hook := newTestRouter(t, httpmiddleware.NewRateLimiter(0, 1))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}")))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}")))

	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if hook.deliveries != 1 {
		t.Fatalf("expected one delivery, got %d", hook.deliveries)
	}

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("health should not be rate limited, got %d", health.Code)
	}
}
