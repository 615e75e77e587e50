package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		" WARN ": zerolog.WarnLevel,
		"error":  zerolog.ErrorLevel,
		"trace":  zerolog.TraceLevel,
		"":       zerolog.InfoLevel,
		"loud":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWritesBothSinks(t *testing.T) {
	var console, file bytes.Buffer
	log := New("warn", &console, &file)

	log.Info().Msg("hidden")
	log.Warn().Str("kind", "bone").Msg("No active bone in selected armature")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "No active bone in selected armature")
	assert.Contains(t, file.String(), "kind=bone")
	assert.NotContains(t, file.String(), "\x1b[", "file output is uncolored")
}
