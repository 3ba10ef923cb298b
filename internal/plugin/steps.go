package plugin

import (
	"context"

	"go.uber.org/zap"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// ProjectWriter applies computed plans to the native projects.
type ProjectWriter interface {
	WriteAndroid(ctx context.Context, plan AndroidPlan) error
	WriteIOS(ctx context.Context, plan IOSPlan) error
}

// Step configures one native platform.
type Step interface {
	Name() string
	Apply(ctx context.Context, cfg domain.ResolvedConfig) error
}

// AndroidStep plans the Android project changes and hands them to a writer.
type AndroidStep struct {
	writer ProjectWriter
	log    *zap.Logger
}

// NewAndroidStep creates the Android platform step.
func NewAndroidStep(writer ProjectWriter, log *zap.Logger) *AndroidStep {
	return &AndroidStep{writer: writer, log: named(log, "android")}
}

// Name implements Step.
func (s *AndroidStep) Name() string { return "android" }

// Apply implements Step.
func (s *AndroidStep) Apply(ctx context.Context, cfg domain.ResolvedConfig) error {
	plan := BuildAndroidPlan(cfg)
	if cfg.EnableLogging {
		s.log.Info("configuring Android platform", zap.String("sdk_archive", plan.SDKArchive))
	}
	return s.writer.WriteAndroid(ctx, plan)
}

// IOSStep plans the iOS project changes and hands them to a writer.
type IOSStep struct {
	writer ProjectWriter
	app    AppInfo
	log    *zap.Logger
}

// NewIOSStep creates the iOS platform step for the given app.
func NewIOSStep(writer ProjectWriter, app AppInfo, log *zap.Logger) *IOSStep {
	return &IOSStep{writer: writer, app: app, log: named(log, "ios")}
}

// Name implements Step.
func (s *IOSStep) Name() string { return "ios" }

// Apply implements Step.
func (s *IOSStep) Apply(ctx context.Context, cfg domain.ResolvedConfig) error {
	plan := BuildIOSPlan(cfg, s.app)
	if cfg.EnableLogging {
		s.log.Info("configuring iOS platform", zap.String("url_scheme", plan.URLType.Schemes[0]))
	}
	return s.writer.WriteIOS(ctx, plan)
}

func named(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.Named(name)
}

// LogWriter is a dry-run ProjectWriter: it records each plan as log events
// and touches no files. Credentials are logged by presence only.
type LogWriter struct {
	log *zap.Logger
}

// NewLogWriter creates a LogWriter.
func NewLogWriter(log *zap.Logger) *LogWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogWriter{log: log}
}

// WriteAndroid implements ProjectWriter.
func (w *LogWriter) WriteAndroid(ctx context.Context, plan AndroidPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.log.Info("android plan",
		zap.String("sdk_archive", plan.SDKArchive),
		zap.String("archive_dest", plan.ArchiveDest),
		zap.Strings("permissions", plan.Permissions),
		zap.Int("meta_data", len(plan.MetaData)),
		zap.Int("activities", len(plan.Activities)),
		zap.String("gradle_dependency", plan.GradleDependency))
	return nil
}

// WriteIOS implements ProjectWriter.
func (w *LogWriter) WriteIOS(ctx context.Context, plan IOSPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	domains := make([]string, 0, len(plan.ExceptionDomains))
	for _, d := range plan.ExceptionDomains {
		domains = append(domains, d.Domain)
	}
	w.log.Info("ios plan",
		zap.String("framework", plan.Framework),
		zap.Strings("url_schemes", plan.URLType.Schemes),
		zap.Strings("ats_domains", domains),
		zap.Int("usage_descriptions", len(plan.UsageDescriptions)))
	return nil
}
