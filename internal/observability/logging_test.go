package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-bot/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggerConfig
	}{
		{"json default", config.LoggerConfig{Level: "info", Format: "json"}},
		{"console format", config.LoggerConfig{Level: "debug", Format: "console"}},
		{"unknown format falls back to json", config.LoggerConfig{Level: "info", Format: "xml"}},
		{"unknown level falls back to info", config.LoggerConfig{Level: "loud", Format: "json"}},
		{"empty config", config.LoggerConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.NotPanics(t, func() { logger.Info("probe") })
		})
	}
}
