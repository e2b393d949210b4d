// Package events broadcasts blog lifecycle events to public websocket
// subscribers. The feed is read-only and requires no identity resolution,
// the same asymmetry as the public read operations.
package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/okovalenko/bloglist/internal/blog/domain"
	"github.com/okovalenko/bloglist/internal/common/constants"
	"github.com/okovalenko/bloglist/internal/common/logger"
	"github.com/okovalenko/bloglist/internal/observability/metrics"
)

const (
	EventBlogCreated = "blog_created"
	EventBlogDeleted = "blog_deleted"
)

type Event struct {
	Type string     `json:"type"`
	Blog *BlogEvent `json:"blog,omitempty"`
	ID   string     `json:"id,omitempty"`
}

type BlogEvent struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, constants.EventHubSendBufSize),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			metrics.EventFeedClients.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.EventFeedClients.Dec()
			}
			h.mu.Unlock()

		case payload := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// slow subscriber, drop rather than block the hub
					metrics.EventFeedDropped.Inc()
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		metrics.EventFeedClients.Dec()
	}
}

// BlogCreated implements the lifecycle publisher consumed by the blog
// service.
func (h *Hub) BlogCreated(blog domain.Blog) {
	h.publish(Event{
		Type: EventBlogCreated,
		Blog: &BlogEvent{
			ID:     string(blog.ID),
			Title:  blog.Title,
			Author: blog.Author,
			URL:    blog.URL,
			Likes:  blog.Likes,
		},
	})
}

func (h *Hub) BlogDeleted(id domain.ID) {
	h.publish(Event{
		Type: EventBlogDeleted,
		ID:   string(id),
	})
}

func (h *Hub) publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Errorf("event feed: failed to marshal event: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		metrics.EventFeedDropped.Inc()
	}
}
