package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSBase(t *testing.T) {
	t.Run("http becomes ws", func(t *testing.T) {
		server := ServerConfig{BaseURL: "http://localhost:8000"}
		wsBase, err := server.WSBase()
		require.NoError(t, err)
		assert.Equal(t, "ws://localhost:8000", wsBase)
	})

	t.Run("https becomes wss", func(t *testing.T) {
		server := ServerConfig{BaseURL: "https://swmra.example.org"}
		wsBase, err := server.WSBase()
		require.NoError(t, err)
		assert.Equal(t, "wss://swmra.example.org", wsBase)
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, ".swmra_token", cfg.Session.TokenFile)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout())
	assert.Equal(t, 10*time.Second, cfg.Live.HandshakeTimeout())
}
