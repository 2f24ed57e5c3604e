package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// Config holds the configuration for an aquarium-control binary
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// Lighting configuration
	LightConfigPath string

	// Daemon configuration
	TickIntervalSec   float64
	TestMode          bool
	TestWindowSeconds float64
	OffOnce           bool

	// Location for the astronomical reference (preview tool)
	Latitude  float64
	Longitude float64

	// Preview configuration
	PreviewDate  string
	PreviewWidth int
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:    "localhost",
		MQTTPort:      1883,
		MQTTUser:      "",
		MQTTPassword:  "",
		MQTTClientID:  "",
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
		ServiceName:   "aquarium-daemon",
		HealthPort:    8080,
		LogLevel:      "info",

		LightConfigPath: "lighting.yaml",

		TickIntervalSec:   10,
		TestMode:          false,
		TestWindowSeconds: 60,
		OffOnce:           false,

		// Helsinki coordinates
		Latitude:  60.1695,
		Longitude: 24.9354,

		PreviewDate:  "",
		PreviewWidth: 80,
	}
}

// LoadFromEnv loads configuration from environment variables with AQUARIUM_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("AQUARIUM_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("AQUARIUM_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("AQUARIUM_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("AQUARIUM_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("AQUARIUM_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("AQUARIUM_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("AQUARIUM_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("AQUARIUM_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("AQUARIUM_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Service configuration
	if v := os.Getenv("AQUARIUM_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("AQUARIUM_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("AQUARIUM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Lighting configuration
	if v := os.Getenv("AQUARIUM_LIGHT_CONFIG"); v != "" {
		c.LightConfigPath = v
	}

	// Daemon configuration
	if v := os.Getenv("AQUARIUM_TICK_INTERVAL_SEC"); v != "" {
		if sec, err := strconv.ParseFloat(v, 64); err == nil {
			c.TickIntervalSec = sec
		}
	}
	if v := os.Getenv("AQUARIUM_TEST_MODE"); v != "" {
		if mode, err := strconv.ParseBool(v); err == nil {
			c.TestMode = mode
		}
	}

	// Location
	if v := os.Getenv("AQUARIUM_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("AQUARIUM_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Lighting flags
	pflag.StringVar(&c.LightConfigPath, "light-config", c.LightConfigPath, "Path to the lighting parameter YAML file")

	// Daemon flags
	pflag.Float64Var(&c.TickIntervalSec, "tick-interval", c.TickIntervalSec, "Control loop tick interval in seconds")
	pflag.BoolVar(&c.TestMode, "test-mode", c.TestMode, "Compress one daylight window into the test window duration")
	pflag.Float64Var(&c.TestWindowSeconds, "test-window-seconds", c.TestWindowSeconds, "Accelerated daylight window duration in test mode")
	pflag.BoolVar(&c.OffOnce, "off-once", c.OffOnce, "Publish off commands and exit")

	// Location flags
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for the astronomical reference")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for the astronomical reference")

	// Preview flags
	pflag.StringVar(&c.PreviewDate, "date", c.PreviewDate, "Preview date (YYYY-MM-DD, default today)")
	pflag.IntVar(&c.PreviewWidth, "width", c.PreviewWidth, "Preview block width in columns")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.LightConfigPath == "" {
		return fmt.Errorf("Lighting config path is required")
	}
	if c.TickIntervalSec <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.TestWindowSeconds <= 0 {
		return fmt.Errorf("test window duration must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
