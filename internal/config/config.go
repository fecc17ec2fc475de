package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Session SessionConfig
	HTTP    HTTPConfig
	Live    LiveConfig
}

type ServerConfig struct {
	BaseURL     string
	Environment string
}

type SessionConfig struct {
	TokenFile string
}

type HTTPConfig struct {
	TimeoutSeconds int
}

type LiveConfig struct {
	HandshakeTimeoutSeconds int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("TOKEN_FILE", ".swmra_token")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("WS_HANDSHAKE_TIMEOUT_SECONDS", 10)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			var pathError *os.PathError
			if !errors.As(err, &pathError) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			BaseURL:     viper.GetString("API_BASE_URL"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Session: SessionConfig{
			TokenFile: viper.GetString("TOKEN_FILE"),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: viper.GetInt("HTTP_TIMEOUT_SECONDS"),
		},
		Live: LiveConfig{
			HandshakeTimeoutSeconds: viper.GetInt("WS_HANDSHAKE_TIMEOUT_SECONDS"),
		},
	}

	return config, nil
}

func (c *HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *LiveConfig) HandshakeTimeout() time.Duration {
	return time.Duration(c.HandshakeTimeoutSeconds) * time.Second
}

// WSBase rewrites the API base URL to the matching websocket scheme.
func (c *ServerConfig) WSBase() (string, error) {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}

	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}

	return parsed.String(), nil
}
