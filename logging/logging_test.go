package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/amonks/genremap/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	log, closer := logging.Setup(logging.Options{Level: "warn", Format: "json"}, &buf)
	defer closer.Close()

	log.Info().Msg("quiet")
	log.Warn().Str("artist", "abba").Msg("loud")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "loud", line["message"])
	assert.Equal(t, "abba", line["artist"])
	assert.Equal(t, "warn", line["level"])
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	log, _ := logging.Setup(logging.Options{Format: "console"}, &buf)
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genremap.log")
	var buf bytes.Buffer
	log, closer := logging.Setup(logging.Options{Format: "json", File: path}, &buf)
	log.Info().Msg("to both")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.ErrorLevel, logging.ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("verbose"))
}
