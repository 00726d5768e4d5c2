// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package bus carries JSON messages between the speedtracker processes
// over MQTT.
package bus

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/speedtracker/internal/metrics"
)

// Publisher sends a value as JSON to a topic.
type Publisher interface {
	Publish(topic string, retained bool, v any) error
}

// Client is a connected MQTT client.
type Client struct {
	name   string
	broker string
	mqtt   mqtt.Client
}

// Connect dials the broker. name prefixes log lines ("trip", "web", …).
func Connect(name, broker, clientID string) (*Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warnf("%s: MQTT connection lost: %v", name, err)
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%s: connect to MQTT broker %s: %w", name, broker, token.Error())
	}
	log.Infof("%s: connected to MQTT broker at %s", name, broker)

	return &Client{name: name, broker: broker, mqtt: client}, nil
}

// Publish marshals v and publishes it with QoS 0.
func (c *Client) Publish(topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: marshal for %s: %w", c.name, topic, err)
	}

	token := c.mqtt.Publish(topic, 0, retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		metrics.MQTTPublishErrorsTotal.WithLabelValues(topic).Inc()
		return fmt.Errorf("%s: publish to %s: %w", c.name, topic, err)
	}
	return nil
}

// Subscribe decodes every message on topic into T and hands it to fn.
// Payloads that fail to decode are logged and dropped.
func Subscribe[T any](c *Client, topic string, fn func(T)) error {
	token := c.mqtt.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if v, ok := Decode[T](c.name, msg.Topic(), msg.Payload()); ok {
			fn(v)
		}
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: subscribe to %s: %w", c.name, topic, err)
	}
	log.Infof("%s: subscribed to %s", c.name, topic)
	return nil
}

// Decode unmarshals an MQTT payload, counting the message and any failure.
func Decode[T any](name, topic string, payload []byte) (T, bool) {
	var v T
	metrics.MQTTMessagesTotal.WithLabelValues(topic).Inc()
	if err := json.Unmarshal(payload, &v); err != nil {
		metrics.MQTTDecodeErrorsTotal.WithLabelValues(topic).Inc()
		log.Warnf("%s: %s unmarshal error: %v", name, topic, err)
		return v, false
	}
	return v, true
}

// Close disconnects, allowing in-flight work 250ms to finish.
func (c *Client) Close() {
	c.mqtt.Disconnect(250)
	log.Infof("%s: disconnected from %s", c.name, c.broker)
}
