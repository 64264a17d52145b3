package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIni(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "connect.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadIni_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadIni(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 55555, cfg.Port)
	assert.True(t, cfg.NoDelay)
	assert.Equal(t, 5000, cfg.TimeoutMillis)
	assert.Equal(t, "info", cfg.Level)
}

func TestLoadIni_File(t *testing.T) {
	path := writeIni(t, `
[connect]
host = ::1
port = 9000
no_delay = false
recv_buf_bytes = 65536
send_buf_bytes = 32768
timeout_ms = 1500
retries = 3

[log]
level = debug
format = json
`)
	cfg, err := LoadIni(path)
	require.NoError(t, err)
	assert.Equal(t, "::1", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.NoDelay)
	assert.Equal(t, 65536, cfg.RecvBufBytes)
	assert.Equal(t, 32768, cfg.SendBufBytes)
	assert.Equal(t, 1500, cfg.TimeoutMillis)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadIni_EnvOverrides(t *testing.T) {
	path := writeIni(t, "[connect]\nport = 9000\n")
	t.Setenv("CONNECT_HOST", "10.0.0.1")
	t.Setenv("CONNECT_PORT", "9100")
	t.Setenv("CONNECT_TIMEOUT_MS", "250")

	cfg, err := LoadIni(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 250, cfg.TimeoutMillis)
}

func TestLoadIni_Invalid(t *testing.T) {
	_, err := LoadIni(writeIni(t, "[connect]\nport = 70000\n"))
	assert.Error(t, err)

	_, err = LoadIni(writeIni(t, "[connect]\ntimeout_ms = -1\n"))
	assert.Error(t, err)
}
