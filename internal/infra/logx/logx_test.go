package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/John-Robertt/extname/internal/config"
)

func TestNew_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("resolved", zap.String("id", "abc"))
	require.NoError(t, l.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "debug 级别不应输出：%s", buf.String())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "resolved", rec["msg"])
	assert.Equal(t, "abc", rec["id"])
	assert.Equal(t, "extname", rec["logger"])
}

func TestNew_AlsoWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "extname.log")
	var buf bytes.Buffer
	l, err := New(config.LogConfig{Level: "debug", Format: "console", File: path, MaxSizeMB: 1, MaxBackups: 1}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Debug("to both")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"to both"`)
	assert.Contains(t, buf.String(), "to both")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestNew_ConsoleWithoutColorWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LogConfig{Level: "info", Format: "console"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Warn("未找到", zap.String("id", "abc"))
	require.NoError(t, l.Sync())

	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "WARN")
}

func TestNew_ConsoleToRegularFileHasNoColor(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stderr.log"))
	require.NoError(t, err)
	defer f.Close()

	l, err := New(config.LogConfig{Level: "info", Format: "console"}, zapcore.AddSync(f))
	require.NoError(t, err)
	l.Info("resolved")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "\x1b[")
	assert.Contains(t, string(b), "INFO")
}
