// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingKey is returned when a required key has no value.
var ErrMissingKey = errors.New("required config key missing")

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string `mapstructure:"MQTT_BROKER"`
	MQTTClientIDGPS     string `mapstructure:"MQTT_CLIENT_ID_GPS"`
	MQTTClientIDTrip    string `mapstructure:"MQTT_CLIENT_ID_TRIP"`
	MQTTClientIDWeb     string `mapstructure:"MQTT_CLIENT_ID_WEB"`
	MQTTClientIDConsole string `mapstructure:"MQTT_CLIENT_ID_CONSOLE"`
	MQTTClientIDDisplay string `mapstructure:"MQTT_CLIENT_ID_DISPLAY"`

	// Topics
	TopicGPSSample string `mapstructure:"TOPIC_GPS_SAMPLE"`
	TopicGPSAuth   string `mapstructure:"TOPIC_GPS_AUTH"`
	TopicTripState string `mapstructure:"TOPIC_TRIP_STATE"`
	TopicTripCmd   string `mapstructure:"TOPIC_TRIP_CMD"`
	TopicSpeed     string `mapstructure:"TOPIC_SPEED"`

	// GPS
	GPSSerialPort      string  `mapstructure:"GPS_SERIAL_PORT"`
	GPSBaudRate        int     `mapstructure:"GPS_BAUD_RATE"`
	GPSDistanceFilterM float64 `mapstructure:"GPS_DISTANCE_FILTER_M"`
	GPSUERE            float64 `mapstructure:"GPS_UERE_M"`

	// Trip
	TripJumpThresholdM float64 `mapstructure:"TRIP_JUMP_THRESHOLD_M"`
	TripTickIntervalMS int     `mapstructure:"TRIP_TICK_INTERVAL_MS"`

	// Web Server
	WebServerPort int    `mapstructure:"WEB_SERVER_PORT"`
	WebStaticDir  string `mapstructure:"WEB_STATIC_DIR"`

	// Display
	DisplayI2CAddr        uint16 `mapstructure:"-"`
	DisplayUpdateInterval int    `mapstructure:"DISPLAY_UPDATE_INTERVAL"` // milliseconds

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"MQTT_BROKER":            "",
	"MQTT_CLIENT_ID_GPS":     "speedtracker-gps-producer",
	"MQTT_CLIENT_ID_TRIP":    "speedtracker-trip",
	"MQTT_CLIENT_ID_WEB":     "speedtracker-web",
	"MQTT_CLIENT_ID_CONSOLE": "speedtracker-console",
	"MQTT_CLIENT_ID_DISPLAY": "speedtracker-display",

	"TOPIC_GPS_SAMPLE": "speedtracker/gps/sample",
	"TOPIC_GPS_AUTH":   "speedtracker/gps/auth",
	"TOPIC_TRIP_STATE": "speedtracker/trip/state",
	"TOPIC_TRIP_CMD":   "speedtracker/trip/cmd",
	"TOPIC_SPEED":      "speedtracker/speed",

	"GPS_SERIAL_PORT":       "",
	"GPS_BAUD_RATE":         0,
	"GPS_DISTANCE_FILTER_M": 1.0,
	"GPS_UERE_M":            5.0,

	"TRIP_JUMP_THRESHOLD_M": 50.0,
	"TRIP_TICK_INTERVAL_MS": 1000,

	"WEB_SERVER_PORT": 8080,
	"WEB_STATIC_DIR":  "web",

	"DISPLAY_I2C_ADDR":        "0x3C",
	"DISPLAY_UPDATE_INTERVAL": 250,

	"LOG_LEVEL": "info",
}

// Package-level singleton, set once by InitGlobal and read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads a KEY=VALUE configuration file. Environment variables with
// the same names override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkKeys(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	addr, err := strconv.ParseUint(v.GetString("DISPLAY_I2C_ADDR"), 0, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", v.GetString("DISPLAY_I2C_ADDR"), err)
	}
	cfg.DisplayI2CAddr = uint16(addr)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkKeys rejects keys the application does not know about; they are
// almost always typos.
func checkKeys(v *viper.Viper) error {
	var unknown []string
	for _, key := range v.AllKeys() {
		if _, ok := defaults[strings.ToUpper(key)]; !ok {
			unknown = append(unknown, strings.ToUpper(key))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown config key(s): %s", strings.Join(unknown, ", "))
	}
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("%w: MQTT_BROKER", ErrMissingKey)
	}
	if c.TripJumpThresholdM <= 0 {
		return fmt.Errorf("TRIP_JUMP_THRESHOLD_M must be positive, got %v", c.TripJumpThresholdM)
	}
	if c.TripTickIntervalMS <= 0 {
		return fmt.Errorf("TRIP_TICK_INTERVAL_MS must be positive, got %d", c.TripTickIntervalMS)
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive, got %d", c.DisplayUpdateInterval)
	}
	return nil
}

// ValidateSerial checks the keys only the serial GPS producer needs.
func (c *Config) ValidateSerial() error {
	if c.GPSSerialPort == "" {
		return fmt.Errorf("%w: GPS_SERIAL_PORT", ErrMissingKey)
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("%w: GPS_BAUD_RATE", ErrMissingKey)
	}
	return nil
}

// TripTickInterval is TRIP_TICK_INTERVAL_MS as a duration.
func (c *Config) TripTickInterval() time.Duration {
	return time.Duration(c.TripTickIntervalMS) * time.Millisecond
}

// DisplayInterval is DISPLAY_UPDATE_INTERVAL as a duration.
func (c *Config) DisplayInterval() time.Duration {
	return time.Duration(c.DisplayUpdateInterval) * time.Millisecond
}

// WebAddr is the listen address for the web server.
func (c *Config) WebAddr() string {
	return fmt.Sprintf(":%d", c.WebServerPort)
}

// InitGlobal initializes the global configuration from file. Only the
// first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
