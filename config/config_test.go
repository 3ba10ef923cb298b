package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "LOG_LEVEL", "LOG_DEVELOPMENT",
		"TELEBIRR_BRIDGE_URL", "TELEBIRR_BRIDGE_API_KEY", "TELEBIRR_BRIDGE_TIMEOUT_SECONDS",
		"SERVICE_API_KEY", "TELEBIRR_PLUGIN_CONFIG",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.False(t, cfg.Bridge.Linked())
	assert.Equal(t, 150*time.Second, cfg.Bridge.Timeout)
	assert.Empty(t, cfg.Security.ServiceAPIKey)
	assert.Empty(t, cfg.Plugin.Path)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("TELEBIRR_BRIDGE_URL", "http://device.local:8787")
	t.Setenv("TELEBIRR_BRIDGE_TIMEOUT_SECONDS", "60")
	t.Setenv("SERVICE_API_KEY", "secret")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.True(t, cfg.Bridge.Linked())
	assert.Equal(t, 60*time.Second, cfg.Bridge.Timeout)
	assert.Equal(t, "secret", cfg.Security.ServiceAPIKey)
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("TELEBIRR_BRIDGE_TIMEOUT_SECONDS", "soon")
	t.Setenv("LOG_DEVELOPMENT", "maybe")

	cfg := Load()

	assert.Equal(t, 150*time.Second, cfg.Bridge.Timeout)
	assert.False(t, cfg.Logging.Development)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPluginFile_YAML(t *testing.T) {
	path := writeFile(t, "telebirr.yaml", `
appId: test-app-id
shortCode: "1234"
environment: uat
timeout: 90
enableLogging: true
unrelated: ignored
app:
  bundleIdentifier: com.example.shop
  slug: shop
`)

	file, err := LoadPluginFile(path)

	require.NoError(t, err)
	assert.Equal(t, domain.PluginOptions{
		"appId":         "test-app-id",
		"shortCode":     "1234",
		"environment":   "uat",
		"timeout":       90,
		"enableLogging": true,
	}, file.Options)
	assert.Equal(t, "com.example.shop", file.BundleIdentifier)
	assert.Equal(t, "shop", file.Slug)
}

func TestLoadPluginFile_JSONKeepsRawTypes(t *testing.T) {
	path := writeFile(t, "telebirr.json", `{"appId": 12345, "shortCode": "1234", "environment": "production", "customScheme": "myshop"}`)

	file, err := LoadPluginFile(path)

	require.NoError(t, err)
	assert.Equal(t, float64(12345), file.Options["appId"], "non-string values reach the validator untouched")
	assert.Equal(t, "myshop", file.Options["customScheme"])
	assert.NotContains(t, file.Options, "timeout")
	assert.Empty(t, file.BundleIdentifier)
}

func TestLoadPluginFile_Missing(t *testing.T) {
	_, err := LoadPluginFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
