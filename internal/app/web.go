// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/speedtracker/internal/bus"
	"github.com/relabs-tech/speedtracker/internal/config"
	"github.com/relabs-tech/speedtracker/internal/dashboard"
	"github.com/relabs-tech/speedtracker/internal/metrics"
	"github.com/relabs-tech/speedtracker/internal/trip"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is served on the local network
	},
}

// WSMessage is sent by the browser to control the trip.
type WSMessage struct {
	Action string `json:"action"` // start, stop, reset, toggle
}

// WebServer serves the dashboard API, the websocket feed and the static UI.
type WebServer struct {
	board     *dashboard.Board
	hub       *Hub
	pub       bus.Publisher
	cmdTopic  string
	staticDir string
}

func NewWebServer(board *dashboard.Board, hub *Hub, pub bus.Publisher, cfg *config.Config) *WebServer {
	return &WebServer{
		board:     board,
		hub:       hub,
		pub:       pub,
		cmdTopic:  cfg.TopicTripCmd,
		staticDir: cfg.WebStaticDir,
	}
}

// Routes returns the HTTP handler.
func (s *WebServer) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/trip", s.handleTrip).Methods(http.MethodGet)
	r.HandleFunc("/api/speed", s.handleSpeed).Methods(http.MethodGet)
	r.HandleFunc("/api/panel", s.handlePanel).Methods(http.MethodGet)
	r.HandleFunc("/api/trip/{action}", s.handleAction).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWS)
	r.Handle("/metrics", metrics.Handler())
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *WebServer) handleTrip(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.board.Trip()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *WebServer) handleSpeed(w http.ResponseWriter, r *http.Request) {
	speed, ok := s.board.Speed()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, speed)
}

func (s *WebServer) handlePanel(w http.ResponseWriter, r *http.Request) {
	if !s.board.Ready() {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Panel())
}

func (s *WebServer) handleAction(w http.ResponseWriter, r *http.Request) {
	action, err := trip.ParseAction(mux.Vars(r)["action"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.sendCommand(action); err != nil {
		http.Error(w, "command not delivered", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusAccepted, trip.Command{Action: action})
}

func (s *WebServer) sendCommand(action trip.Action) error {
	if err := s.pub.Publish(s.cmdTopic, false, trip.Command{Action: action}); err != nil {
		log.Errorf("web: %v", err)
		return err
	}
	log.Infof("web: sent trip %s", action)
	return nil
}

func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	client := s.hub.Register()

	// reader: trip commands from the browser; ends when the socket closes
	go func() {
		defer s.hub.Unregister(client)
		for {
			var msg WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				var closeErr *websocket.CloseError
				if !errors.As(err, &closeErr) {
					log.Debugf("web: websocket read error: %v", err)
				}
				return
			}
			action, err := trip.ParseAction(msg.Action)
			if err != nil {
				log.Warnf("web: %v", err)
				continue
			}
			_ = s.sendCommand(action)
		}
	}()

	if s.board.Ready() {
		if err := conn.WriteJSON(s.board.Panel()); err != nil {
			return
		}
	}
	for payload := range client.Send {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debugf("web: websocket write error: %v", err)
			return
		}
	}
}

// RunWeb subscribes to the trip service topics and serves the dashboard
// until ctx is done.
func RunWeb(ctx context.Context) error {
	cfg := config.Get()

	client, err := bus.Connect("web", cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Close()

	hub := NewHub()
	board := dashboard.NewBoard(func(p dashboard.Panel) {
		payload, err := json.Marshal(p)
		if err != nil {
			log.Printf("web: json marshal error: %v", err)
			return
		}
		hub.Broadcast(payload)
	})

	if err := bus.Subscribe(client, cfg.TopicSpeed, board.SetSpeed); err != nil {
		return err
	}
	if err := bus.Subscribe(client, cfg.TopicTripState, board.SetTrip); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.WebAddr(),
		Handler:           NewWebServer(board, hub, client, cfg).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("web: server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
