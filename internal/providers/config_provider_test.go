package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"f2g/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
webServer:
  host: 127.0.0.1
  port: 8000
logger:
  level: info
  mode: 420
  dir: /tmp
upload:
  maxFiles: 2
  maxFileSize: 10485760
  ttl: 1h
limits:
  dailyLimit: 2
  resetPeriod: 24h
  suspiciousWindow: 1h
  suspiciousThreshold: 3
storage:
  type: memory
  evictInterval: 1m
  conversionTTL: 1h
persistence:
  filePath: /tmp/f2g.dat
  saveInterval: 30s
cache:
  enabled: true
  size: 8
  ttl: 10m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewConfigProvider_ReadsYAML(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 8000, conf.WebServer.Port)
	assert.Equal(t, 2, conf.Upload.MaxFiles)
	assert.Equal(t, 24*time.Hour, conf.Limits.ResetPeriod)
	assert.Equal(t, 30*time.Second, conf.Persistence.SaveInterval)
	assert.Equal(t, 10*time.Minute, conf.Cache.TTL)
	assert.Equal(t, "logid", conf.Converter.Strategy)
	assert.Equal(t, "Health Sync", conf.Converter.ProductName)
	assert.Equal(t, 1701, int(conf.Converter.SerialNumber))
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
}

func TestNewConfigProvider_EnvOverrides(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("F2G_DAILY_LIMIT", "5")
	t.Setenv("F2G_TIMESTAMP_STRATEGY", "datetime")
	t.Setenv("F2G_CACHE_ENABLED", "false")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 5, conf.Limits.DailyLimit)
	assert.Equal(t, "datetime", conf.Converter.Strategy)
	assert.False(t, conf.Cache.Enabled)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("F2G_STORAGE_TYPE", "redis")

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
