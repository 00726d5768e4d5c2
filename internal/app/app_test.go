// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/speedtracker/internal/config"
)

type published struct {
	Topic    string
	Retained bool
	Payload  []byte
}

// fakePublisher records messages instead of sending them to a broker.
type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{Topic: topic, Retained: retained, Payload: payload})
	return nil
}

func (p *fakePublisher) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *fakePublisher) on(topic string) []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []published
	for _, m := range p.msgs {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// last decodes the most recent message on topic into v.
func (p *fakePublisher) last(t *testing.T, topic string, v any) published {
	t.Helper()
	msgs := p.on(topic)
	require.NotEmpty(t, msgs, "nothing published on %s", topic)
	m := msgs[len(msgs)-1]
	require.NoError(t, json.Unmarshal(m.Payload, v))
	return m
}

func testConfig() *config.Config {
	return &config.Config{
		TopicGPSSample:     "test/gps/sample",
		TopicGPSAuth:       "test/gps/auth",
		TopicTripState:     "test/trip/state",
		TopicTripCmd:       "test/trip/cmd",
		TopicSpeed:         "test/speed",
		GPSDistanceFilterM: 1.0,
		GPSUERE:            5.0,
		TripJumpThresholdM: 50,
		TripTickIntervalMS: 1000,
		WebServerPort:      8080,
		WebStaticDir:       "web",
	}
}
