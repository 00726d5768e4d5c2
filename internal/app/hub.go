// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"sync"

	"github.com/relabs-tech/speedtracker/internal/metrics"
)

// Hub fans dashboard updates out to websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*HubClient]struct{}
}

// HubClient is one websocket connection's outbound queue.
type HubClient struct {
	Send chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: map[*HubClient]struct{}{}}
}

func (h *Hub) Register() *HubClient {
	c := &HubClient{Send: make(chan []byte, 16)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
	return c
}

func (h *Hub) Unregister(c *HubClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	close(c.Send)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
}

// Broadcast queues payload for every client. Slow clients miss updates
// rather than stalling the others.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.Send <- payload:
		default:
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
