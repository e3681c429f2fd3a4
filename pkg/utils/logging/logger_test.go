package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFileName(t *testing.T) {
	at := time.Date(2024, 4, 7, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "prod_2024-04-07_09-30-05.log"), LogFileName("logs", "prod", at))
}

func TestInitLogger_WritesJSONDebugToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := InitLogger("test", dir)
	require.NoError(t, err)

	logger.Debug("debug line")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "test_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line))
	assert.Equal(t, "debug line", line["msg"])
	assert.Equal(t, "debug", line["level"])
	assert.Contains(t, line, "timestamp")
}
