// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/speedtracker/internal/dashboard"
	"github.com/relabs-tech/speedtracker/internal/location"
	"github.com/relabs-tech/speedtracker/internal/trip"
)

type webFixture struct {
	srv   *httptest.Server
	board *dashboard.Board
	hub   *Hub
	pub   *fakePublisher
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()
	cfg := testConfig()
	cfg.WebStaticDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.WebStaticDir, "index.html"), []byte("<h1>speed</h1>"), 0o644))

	f := &webFixture{hub: NewHub(), pub: &fakePublisher{}}
	f.board = dashboard.NewBoard(func(p dashboard.Panel) {
		payload, err := json.Marshal(p)
		require.NoError(t, err)
		f.hub.Broadcast(payload)
	})
	f.srv = httptest.NewServer(NewWebServer(f.board, f.hub, f.pub, cfg).Routes())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *webFixture) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func (f *webFixture) post(t *testing.T, path string) int {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func (f *webFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readPanel(t *testing.T, conn *websocket.Conn) dashboard.Panel {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var p dashboard.Panel
	require.NoError(t, conn.ReadJSON(&p))
	return p
}

func TestWebNoDataYet(t *testing.T) {
	f := newWebFixture(t)

	for _, path := range []string{"/api/trip", "/api/speed", "/api/panel"} {
		code, _ := f.get(t, path)
		assert.Equal(t, http.StatusServiceUnavailable, code, path)
	}
}

func TestWebState(t *testing.T) {
	f := newWebFixture(t)
	acc := 12.0
	f.board.SetSpeed(dashboard.Speed{SpeedMph: 31.6, AccuracyMeters: &acc, Authorization: location.Authorized})
	f.board.SetTrip(trip.Snapshot{Running: true, ElapsedSeconds: 65, Elapsed: "01:05", DistanceMiles: 0.5})

	code, body := f.get(t, "/api/trip")
	require.Equal(t, http.StatusOK, code)
	var snap trip.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, 65, snap.ElapsedSeconds)

	code, body = f.get(t, "/api/speed")
	require.Equal(t, http.StatusOK, code)
	var speed dashboard.Speed
	require.NoError(t, json.Unmarshal(body, &speed))
	assert.Equal(t, 31.6, speed.SpeedMph)

	code, body = f.get(t, "/api/panel")
	require.Equal(t, http.StatusOK, code)
	var panel dashboard.Panel
	require.NoError(t, json.Unmarshal(body, &panel))
	assert.Equal(t, "32", panel.Speed)
	assert.Equal(t, "RUNNING", panel.Badge)
	assert.Equal(t, "Stop", panel.ToggleLabel)
	assert.Equal(t, "0.50", panel.Miles)
	assert.Equal(t, "GPS Accuracy: ~12 m", panel.Status.Text)
}

func TestWebActions(t *testing.T) {
	f := newWebFixture(t)

	assert.Equal(t, http.StatusAccepted, f.post(t, "/api/trip/Start"))
	var cmd trip.Command
	m := f.pub.last(t, "test/trip/cmd", &cmd)
	assert.Equal(t, trip.ActionStart, cmd.Action)
	assert.False(t, m.Retained)

	assert.Equal(t, http.StatusBadRequest, f.post(t, "/api/trip/launch"))
	assert.Len(t, f.pub.on("test/trip/cmd"), 1)

	f.pub.fail(errors.New("broker down"))
	assert.Equal(t, http.StatusBadGateway, f.post(t, "/api/trip/reset"))
}

func TestWebStaticAndMetrics(t *testing.T) {
	f := newWebFixture(t)

	code, body := f.get(t, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "speed")

	code, body = f.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "speedtracker_")
}

func TestWebSocketFeed(t *testing.T) {
	f := newWebFixture(t)
	f.board.SetTrip(trip.Snapshot{Elapsed: "00:00"})

	conn := f.dial(t)
	initial := readPanel(t, conn)
	assert.Equal(t, "STOPPED", initial.Badge)
	assert.Equal(t, "Start", initial.ToggleLabel)

	f.board.SetTrip(trip.Snapshot{Running: true, ElapsedSeconds: 3, Elapsed: "00:03"})
	update := readPanel(t, conn)
	assert.True(t, update.Running)
	assert.Equal(t, "00:03", update.Time)

	require.NoError(t, conn.WriteJSON(WSMessage{Action: "toggle"}))
	require.Eventually(t, func() bool {
		return len(f.pub.on("test/trip/cmd")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	var cmd trip.Command
	f.pub.last(t, "test/trip/cmd", &cmd)
	assert.Equal(t, trip.ActionToggle, cmd.Action)
}

func TestWebSocketUnregistersOnClose(t *testing.T) {
	f := newWebFixture(t)
	f.board.SetTrip(trip.Snapshot{Elapsed: "00:00"})

	conn := f.dial(t)
	readPanel(t, conn)
	assert.Equal(t, 1, f.hub.Len())

	conn.Close()
	require.Eventually(t, func() bool { return f.hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
