package server

import (
	"context"

	"go.uber.org/zap"
)

type subscription struct {
	client  *Client
	matchID string
}

type matchMessage struct {
	matchID string
	payload []byte
}

type directMessage struct {
	client  *Client
	payload []byte
}

// Hub owns the set of connected clients and fans match updates out to the
// clients subscribed to each match. Only the run goroutine touches the maps.
type Hub struct {
	logger *zap.Logger

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	broadcast  chan matchMessage
	direct     chan directMessage
	done       chan struct{}

	clients map[*Client]string
	matches map[string]map[*Client]bool
}

func newHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		broadcast:  make(chan matchMessage, 64),
		direct:     make(chan directMessage, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]string),
		matches:    make(map[string]map[*Client]bool),
	}
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
			}
			h.clients = nil
			h.matches = nil
			return

		case client := <-h.register:
			h.clients[client] = ""
			h.logger.Debug("client registered", zap.String("remote", client.remote))

		case client := <-h.unregister:
			if matchID, ok := h.clients[client]; ok {
				h.drop(client, matchID)
				h.logger.Debug("client unregistered",
					zap.String("remote", client.remote),
					zap.String("match_id", matchID),
				)
			}

		case sub := <-h.subscribe:
			previous, ok := h.clients[sub.client]
			if !ok {
				continue
			}
			if previous != "" {
				delete(h.matches[previous], sub.client)
			}
			h.clients[sub.client] = sub.matchID
			if h.matches[sub.matchID] == nil {
				h.matches[sub.matchID] = make(map[*Client]bool)
			}
			h.matches[sub.matchID][sub.client] = true

		case msg := <-h.broadcast:
			for client := range h.matches[msg.matchID] {
				h.deliver(client, msg.payload)
			}

		case msg := <-h.direct:
			if _, ok := h.clients[msg.client]; ok {
				h.deliver(msg.client, msg.payload)
			}
		}
	}
}

// deliver queues payload for client, dropping clients that cannot keep up.
func (h *Hub) deliver(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		h.logger.Warn("dropping slow client", zap.String("remote", client.remote))
		h.drop(client, h.clients[client])
	}
}

func (h *Hub) drop(client *Client, matchID string) {
	delete(h.clients, client)
	if subs := h.matches[matchID]; subs != nil {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.matches, matchID)
		}
	}
	close(client.send)
}

// enqueue hands a message to the run goroutine unless the hub has stopped.
func enqueue[T any](h *Hub, ch chan T, msg T) bool {
	select {
	case ch <- msg:
		return true
	case <-h.done:
		return false
	}
}
