package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	service string
	base    *zap.Logger
	z       *zap.Logger
}

func New(service string) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), zap.DebugLevel)
	return FromZap(service, zap.New(core).With(zap.String("hostname", hostname())))
}

// FromZap wraps an existing zap logger.
func FromZap(service string, z *zap.Logger) *Logger {
	return &Logger{service: service, base: z, z: z.With(zap.String("service", service))}
}

// Nop discards everything, used by tests.
func Nop() *Logger { return FromZap("nop", zap.NewNop()) }

// Named returns a logger for another service sharing the same sink.
func (l *Logger) Named(service string) *Logger {
	return FromZap(service, l.base)
}

func (l *Logger) log(level zapcore.Level, action string, fields map[string]any, err error) {
	zf := make([]zap.Field, 0, len(fields)+2)
	zf = append(zf, zap.String("action", action))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	if ce := l.z.Check(level, action); ce != nil {
		ce.Write(zf...)
	}
}

func (l *Logger) Info(action string, fields map[string]any)             { l.log(zap.InfoLevel, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any)            { l.log(zap.DebugLevel, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)             { l.log(zap.WarnLevel, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) { l.log(zap.ErrorLevel, action, fields, err) }

func (l *Logger) Sync() { _ = l.z.Sync() }

func hostname() string { h, _ := os.Hostname(); return h }
