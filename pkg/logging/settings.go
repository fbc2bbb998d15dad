package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceName        = "iget-admin"
	initialSampling    = 100
	thereafterSampling = 100
)

type settings struct {
	config *zap.Config
	opts   []zap.Option
}

// newSettings builds the production JSON config. Sampling is off at debug
// level so request traces are never thinned out while investigating.
func newSettings(level zap.AtomicLevel) *settings {
	var sampling *zap.SamplingConfig
	if level.Level() > zapcore.DebugLevel {
		sampling = &zap.SamplingConfig{
			Initial:    initialSampling,
			Thereafter: thereafterSampling,
		}
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.MessageKey = "message"
	encoder.TimeKey = "@timestamp"
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeDuration = zapcore.MillisDurationEncoder

	return &settings{
		config: &zap.Config{
			Level:            level,
			Sampling:         sampling,
			Encoding:         "json",
			EncoderConfig:    encoder,
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			InitialFields: map[string]any{
				"service": serviceName,
			},
		},
		opts: []zap.Option{
			zap.AddCallerSkip(1),
			zap.AddStacktrace(zapcore.ErrorLevel),
		},
	}
}
