package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "bizdesk", cfg.Issuer)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.True(t, cfg.AutoConfirm)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 7*24*time.Hour, cfg.UnconfirmedRetention)
	require.Empty(t, cfg.KeyFile)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BIZDESK_AUTO_CONFIRM", "false")
	t.Setenv("BIZDESK_SESSION_TTL", "2h")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.False(t, cfg.AutoConfirm)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("BIZDESK_SESSION_TTL", "soon")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("empty issuer", func(t *testing.T) {
		cfg := Config{Port: 8080, SessionTTL: time.Hour}
		require.Error(t, cfg.Validate())
	})
}
