package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_TeesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := NewLogger("test", Options{Dir: dir, Console: &console})
	require.NoError(t, err)

	logger.Debug("file only", zap.String("worker_id", "w1"))
	logger.Info("both", zap.Int("conflicts", 2))
	_ = logger.Sync()

	assert.NotContains(t, console.String(), "file only")
	assert.Contains(t, console.String(), "both")

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "file only", entry["msg"])
	assert.Equal(t, "w1", entry["worker_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLogger_Verbose(t *testing.T) {
	var console bytes.Buffer

	logger, err := NewLogger("test", Options{Dir: t.TempDir(), Console: &console, Verbose: true})
	require.NoError(t, err)

	logger.Debug("breadcrumb")
	_ = logger.Sync()

	assert.Contains(t, console.String(), "breadcrumb")
	assert.Contains(t, console.String(), "DEBUG")
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, time.December, 15, 8, 30, 5, 0, time.UTC)

	assert.Equal(t, filepath.Join("logs", "prod_2025-12-15_08-30-05.log"), FileName("logs", "prod", at))
	assert.Equal(t, filepath.Join("logs", "default_2025-12-15_08-30-05.log"), FileName("logs", "", at))
}
