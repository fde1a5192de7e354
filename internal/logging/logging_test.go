package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.WarnLevel},
		{in: "trace", want: zerolog.TraceLevel},
		{in: "DEBUG", want: zerolog.DebugLevel},
		{in: " info ", want: zerolog.InfoLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "off", want: zerolog.Disabled},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("component", "editor").Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, "editor", entry["component"])
	assert.Equal(t, "ice", entry["app"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_ConsoleWithoutTerminalHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Warn().Msg("careful")

	assert.Contains(t, buf.String(), "careful")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNew_VerboseLowersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "error", Format: "json", Verbose: true}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}
