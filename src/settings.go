package main

import (
	"fmt"
	"os"
	"strings"
)

// Settings holds process configuration read from the environment (and .env)
type Settings struct {
	Broker      string
	Username    string
	Password    string
	ClientID    string
	TopicPrefix string
	PresetPath  string
	Console     bool
}

// LoadSettings reads Settings from the environment
func LoadSettings() Settings {
	return Settings{
		Broker:      os.Getenv("MQTT_BROKER"),
		Username:    os.Getenv("MQTT_USERNAME"),
		Password:    os.Getenv("MQTT_PASSWORD"),
		ClientID:    getEnvDefault("MQTT_CLIENT_ID", "gridsizer"),
		TopicPrefix: strings.TrimSuffix(getEnvDefault("GRIDSIZER_TOPIC_PREFIX", "gridsizer"), "/"),
		PresetPath:  os.Getenv("GRIDSIZER_PRESET"),
		Console:     getEnvBool("GRIDSIZER_CONSOLE", true),
	}
}

// MQTTEnabled is true when a broker is configured
func (s Settings) MQTTEnabled() bool {
	return s.Broker != ""
}

// BrokerURL returns the broker as a URL, defaulting to plain TCP on 1883
func (s Settings) BrokerURL() string {
	if strings.Contains(s.Broker, "://") {
		return s.Broker
	}
	if strings.Contains(s.Broker, ":") {
		return "tcp://" + s.Broker
	}
	return fmt.Sprintf("tcp://%s:1883", s.Broker)
}

func getEnvDefault(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no":
		return false
	default:
		return defaultVal
	}
}
