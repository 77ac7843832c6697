package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/courtside/internal/platform/resilience"
)

func TestPushPublisher_PublishesBroadcast(t *testing.T) {
	t.Parallel()

	var got pushMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/broadcast/league-9" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer push-token" {
			t.Fatalf("unexpected authorization header: %s", auth)
		}
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	publisher := NewPushPublisher(PushPublisherConfig{
		BaseURL: srv.URL,
		Token:   "push-token",
	}, nil)

	err := publisher.Publish(context.Background(), "league-9", "game_ended", "Final", "Downtown 101, Riverside 96", map[string]any{"game_id": "g-1"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if got.Type != "game_ended" || got.Title != "Final" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.Data["game_id"] != "g-1" {
		t.Fatalf("unexpected data: %v", got.Data)
	}
}

func TestPushPublisher_RequiresLeague(t *testing.T) {
	t.Parallel()

	publisher := NewPushPublisher(PushPublisherConfig{BaseURL: "https://push.example.com"}, nil)
	if err := publisher.Publish(context.Background(), "  ", "game_ended", "", "", nil); err == nil {
		t.Fatalf("expected error for blank league id")
	}
}

func TestPushPublisher_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher := NewPushPublisher(PushPublisherConfig{
		BaseURL: srv.URL,
		Token:   "push-token",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, nil)

	for i := 0; i < 2; i++ {
		if err := publisher.Publish(context.Background(), "league-9", "tick", "", "", nil); err == nil {
			t.Fatalf("expected failure from 503")
		}
	}

	err := publisher.Publish(context.Background(), "league-9", "tick", "", "", nil)
	if err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected breaker to stop the third call, got %d upstream calls", got)
	}
}
