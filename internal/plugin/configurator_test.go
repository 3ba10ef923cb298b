package plugin

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fitstack/telebirr-payments/internal/domain"
	"github.com/fitstack/telebirr-payments/internal/observability/metrics"
)

// recordingWriter keeps every plan it is given.
type recordingWriter struct {
	mu      sync.Mutex
	android []AndroidPlan
	ios     []IOSPlan
	iosErr  error
}

func (w *recordingWriter) WriteAndroid(_ context.Context, plan AndroidPlan) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.android = append(w.android, plan)
	return nil
}

func (w *recordingWriter) WriteIOS(_ context.Context, plan IOSPlan) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.iosErr != nil {
		return w.iosErr
	}
	w.ios = append(w.ios, plan)
	return nil
}

func validOptions() domain.PluginOptions {
	return domain.PluginOptions{
		"appId":       "test-app-id",
		"shortCode":   "1234",
		"environment": "uat",
	}
}

func TestConfigure_AppliesDefaultsAndRunsSteps(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{}
	c := NewConfigurator(writer, AppInfo{BundleIdentifier: "com.example.shop"}, zap.NewNop())

	res, err := c.Configure(context.Background(), validOptions())

	require.NoError(t, err)
	assert.Equal(t, domain.ResolvedConfig{
		AppID:         "test-app-id",
		ShortCode:     "1234",
		Environment:   domain.EnvironmentUAT,
		EnableLogging: false,
		CustomScheme:  "",
		Timeout:       120,
	}, res.Config)
	assert.Empty(t, res.Warnings)

	require.Len(t, writer.android, 1)
	assert.Equal(t, AndroidArchiveUAT, writer.android[0].SDKArchive)
	require.Len(t, writer.ios, 1)
	assert.Equal(t, []string{"com.example.shop"}, writer.ios[0].URLType.Schemes)
}

func TestConfigure_InvalidOptions(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{}
	collector := metrics.NewCollector()
	c := NewConfigurator(writer, AppInfo{}, zap.NewNop(), WithMetrics(collector))

	res, err := c.Configure(context.Background(), domain.PluginOptions{"environment": "staging"})

	assert.Nil(t, res)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{
		"appId is required and must be a non-empty string",
		"shortCode is required and must be a non-empty string",
		`environment must be either "uat" or "production"`,
	}, cfgErr.Errors)
	assert.Equal(t, "Telebirr Plugin Configuration Error:\n"+
		"appId is required and must be a non-empty string\n"+
		"shortCode is required and must be a non-empty string\n"+
		`environment must be either "uat" or "production"`, err.Error())

	assert.Empty(t, writer.android, "no step may run on invalid options")
	assert.Empty(t, writer.ios)
	count, err := testutil.GatherAndCount(collector.Registry(), "telebirr_validation_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestConfigure_LogsWarnings(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	opts := validOptions()
	opts["timeout"] = 10

	res, err := NewConfigurator(&recordingWriter{}, AppInfo{}, zap.New(core)).Configure(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, []string{"timeout less than 30 seconds may cause payment failures"}, res.Warnings)
	warnings := logs.FilterMessage("Telebirr plugin warning").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "timeout less than 30 seconds may cause payment failures", warnings[0].ContextMap()["warning"])
	assert.Zero(t, logs.FilterMessage("Telebirr plugin configuration").Len(), "configuration is logged only when enabled")
}

func TestConfigure_EnableLoggingMasksCredentials(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	opts := validOptions()
	opts["enableLogging"] = true

	_, err := NewConfigurator(&recordingWriter{}, AppInfo{}, zap.New(core)).Configure(context.Background(), opts)

	require.NoError(t, err)
	entries := logs.FilterMessage("Telebirr plugin configuration").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[CONFIGURED]", fields["app_id"])
	assert.Equal(t, "[CONFIGURED]", fields["short_code"])
	assert.Equal(t, "uat", fields["environment"])

	for _, entry := range logs.All() {
		for _, v := range entry.ContextMap() {
			assert.NotEqual(t, "test-app-id", v, "appId leaked in %q", entry.Message)
		}
	}
}

func TestConfigure_StepFailure(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{iosErr: errors.New("framework not found")}
	res, err := NewConfigurator(writer, AppInfo{}, nil).Configure(context.Background(), validOptions())

	assert.Nil(t, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ios step")
	assert.Contains(t, err.Error(), "framework not found")
}

func TestConfigure_CustomSteps(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{}
	c := NewConfigurator(nil, AppInfo{}, zap.NewNop(), WithSteps(NewAndroidStep(writer, nil)))

	_, err := c.Configure(context.Background(), validOptions())

	require.NoError(t, err)
	assert.Len(t, writer.android, 1)
	assert.Empty(t, writer.ios)
}

func TestConfigure_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConfigurator(NewLogWriter(zap.NewNop()), AppInfo{}, zap.NewNop()).Configure(ctx, validOptions())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	opts := validOptions()
	opts["timeout"] = 600
	opts["customScheme"] = "myshop"

	cfg, result, err := Resolve(opts)

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, []string{"timeout greater than 5 minutes may provide poor user experience"}, result.Warnings)
	assert.Equal(t, float64(600), cfg.Timeout)
	assert.Equal(t, "myshop", cfg.CustomScheme)

	_, result, err = Resolve(domain.PluginOptions{})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.False(t, result.IsValid)
	assert.Equal(t, result.Errors, cfgErr.Errors)
}
