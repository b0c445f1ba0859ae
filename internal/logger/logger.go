package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"equity-advisor/internal/trace"
)

var (
	globalLogger    = slog.New(slog.NewTextHandler(io.Discard, nil))
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or text
	DetailedLogging bool
	Output          io.Writer
}

// Init initializes the global logger from LOG_LEVEL, LOG_FORMAT and LOG_DETAILED.
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "json"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig initializes the logger with a specific configuration.
// Output defaults to stderr so stdout stays clean for command results.
func InitWithConfig(config LogConfig) error {
	detailedLogging = config.DetailedLogging

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	// Source is added manually in logWithTrace to report the real caller
	opts := &slog.HandlerOptions{Level: parseLogLevel(config.Level)}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Debug logs only when detailed logging is enabled
func Debug(ctx context.Context, msg string, args ...any) {
	if !detailedLogging {
		return
	}
	logWithTrace(ctx, slog.LevelDebug, msg, 2, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelWarn, msg, 2, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelError, msg, 2, args...)
}

// ErrorWithErr logs err and records it on the active span
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	recordError(ctx, err)
	logWithTrace(ctx, slog.LevelError, msg, 2, append([]any{"error", err}, args...)...)
}

// DebugSkip, InfoSkip and ErrorWithErrSkip are for decorators: skip extra
// frames so the source points at the decorated call site.
func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	if !detailedLogging {
		return
	}
	logWithTrace(ctx, slog.LevelDebug, msg, 2+skip, args...)
}

func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2+skip, args...)
}

func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	recordError(ctx, err)
	logWithTrace(ctx, slog.LevelError, msg, 2+skip, append([]any{"error", err}, args...)...)
}

func recordError(ctx context.Context, err error) {
	if err == nil || !trace.Enabled() {
		return
	}
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

type requestIDKey struct{}

// WithRequestID tags every log line written under ctx with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

func logWithTrace(ctx context.Context, level slog.Level, msg string, skip int, args ...any) {
	if id, ok := RequestID(ctx); ok {
		args = append([]any{"request_id", id}, args...)
	}
	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}

	if detailedLogging {
		// runtime.Caller -> logWithTrace -> wrapper -> caller
		if pc, file, line, ok := runtime.Caller(skip); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				args = append(args, "source", slog.GroupValue(
					slog.String("function", fn.Name()),
					slog.String("file", file),
					slog.Int("line", line),
				))
			}
		}
	}

	globalLogger.Log(ctx, level, msg, args...)
}

// OperationTimer measures an operation inside its own span
type OperationTimer struct {
	ctx    context.Context
	span   oteltrace.Span
	owned  bool
	start  time.Time
	fields []any
}

func StartOperation(ctx context.Context, operation string, fields ...any) *OperationTimer {
	owned := trace.Enabled()
	ctx, span := trace.StartSpan(ctx, operation)
	if owned {
		span.SetAttributes(toAttributes(fields)...)
	}

	Debug(ctx, "Operation started", append([]any{"operation", operation}, fields...)...)

	return &OperationTimer{
		ctx:    ctx,
		span:   span,
		owned:  owned,
		start:  time.Now(),
		fields: fields,
	}
}

func (ot *OperationTimer) End(additionalFields ...any) {
	duration := time.Since(ot.start)

	if ot.owned {
		ot.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
		ot.span.SetAttributes(toAttributes(additionalFields)...)
		ot.span.SetStatus(codes.Ok, "completed")
		ot.span.End()
	}

	fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds())
	Debug(ot.ctx, "Operation completed", append(fields, additionalFields...)...)
}

func (ot *OperationTimer) EndWithError(err error, additionalFields ...any) {
	duration := time.Since(ot.start)

	if ot.owned {
		ot.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
		ot.span.RecordError(err)
		ot.span.SetStatus(codes.Error, err.Error())
		ot.span.End()
	}

	fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds(), "error", err)
	Warn(ot.ctx, "Operation failed", append(fields, additionalFields...)...)
}

// GetContext returns the context carrying the operation span
func (ot *OperationTimer) GetContext() context.Context {
	return ot.ctx
}

// Verdict logs a resolved recommendation regardless of level
func Verdict(ctx context.Context, symbol, recommendation string, confidence float64, reasoning string, fields ...any) {
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.AddEvent("verdict", oteltrace.WithAttributes(
			attribute.String("symbol", symbol),
			attribute.String("recommendation", recommendation),
			attribute.Float64("confidence", confidence),
		))
	}

	allFields := append([]any{
		"type", "VERDICT",
		"symbol", symbol,
		"recommendation", recommendation,
		"confidence", confidence,
		"reasoning", reasoning,
	}, fields...)
	logWithTrace(ctx, slog.LevelInfo, "Verdict resolved", 2, allFields...)
}

func toAttributes(fields []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		}
	}
	return attrs
}

func IsDebugEnabled() bool {
	return detailedLogging
}
