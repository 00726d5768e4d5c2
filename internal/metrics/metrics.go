// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GPS receiver
	NMEASentencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speedtracker_nmea_sentences_total",
		Help: "NMEA sentences parsed, by sentence type",
	}, []string{"type"})

	NMEAParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speedtracker_nmea_parse_errors_total",
		Help: "NMEA lines that could not be parsed",
	})

	SamplesPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speedtracker_samples_published_total",
		Help: "Location samples that passed the distance filter",
	})

	SamplesFilteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speedtracker_samples_filtered_total",
		Help: "Location samples dropped by the distance filter",
	})

	// Trip tracker
	TripIngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speedtracker_trip_ingest_total",
		Help: "Trip ingest calls, by result (ignored, anchored, accepted, rejected)",
	}, []string{"result"})

	TripDistanceMeters = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speedtracker_trip_distance_meters",
		Help: "Accumulated trip distance",
	})

	TripElapsedSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speedtracker_trip_elapsed_seconds",
		Help: "Elapsed trip time",
	})

	TripRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speedtracker_trip_running",
		Help: "1 while a trip is running",
	})

	SpeedMph = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speedtracker_speed_mph",
		Help: "Latest instantaneous speed",
	})

	// Transport
	MQTTMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speedtracker_mqtt_messages_total",
		Help: "MQTT messages received, by topic",
	}, []string{"topic"})

	MQTTDecodeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speedtracker_mqtt_decode_errors_total",
		Help: "MQTT payloads that failed to decode, by topic",
	}, []string{"topic"})

	MQTTPublishErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speedtracker_mqtt_publish_errors_total",
		Help: "MQTT publish failures, by topic",
	}, []string{"topic"})

	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speedtracker_websocket_clients",
		Help: "Connected dashboard websocket clients",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveTrip records the trip gauges.
func ObserveTrip(running bool, elapsedSeconds int, distanceMeters float64) {
	if running {
		TripRunning.Set(1)
	} else {
		TripRunning.Set(0)
	}
	TripElapsedSeconds.Set(float64(elapsedSeconds))
	TripDistanceMeters.Set(distanceMeters)
}
