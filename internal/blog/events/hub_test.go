package events_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/okovalenko/bloglist/internal/blog/domain"
	"github.com/okovalenko/bloglist/internal/blog/events"
	"github.com/okovalenko/bloglist/internal/common/logger"
)

func newTestHub(t *testing.T) (*events.Hub, context.CancelFunc) {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	hub := events.NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	// must not block or panic with nobody listening
	hub.BlogCreated(domain.Blog{ID: "blog-1", Title: "React patterns"})
	hub.BlogDeleted("blog-1")
}

func TestHub_BroadcastsToSubscriber(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	upgrader := gorillaWS.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(upgrader, w, r)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorillaWS.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	// registration races the handshake; give the hub a moment
	time.Sleep(100 * time.Millisecond)

	hub.BlogCreated(domain.Blog{
		ID:     "blog-1",
		Title:  "Go Concurrency Patterns",
		Author: "Rob Pike",
		URL:    "https://blog.golang.org/pipelines",
		Likes:  3,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}

	var event events.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("expected json event, got %v", err)
	}

	if event.Type != events.EventBlogCreated {
		t.Errorf("expected event type %s, got %s", events.EventBlogCreated, event.Type)
	}
	if event.Blog == nil || event.Blog.ID != "blog-1" {
		t.Errorf("unexpected event payload: %+v", event.Blog)
	}

	hub.BlogDeleted("blog-1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read deletion event: %v", err)
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("expected json event, got %v", err)
	}
	if event.Type != events.EventBlogDeleted || event.ID != "blog-1" {
		t.Errorf("unexpected deletion event: %+v", event)
	}
}
