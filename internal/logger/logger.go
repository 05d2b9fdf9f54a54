package logger

import (
	"github.com/pageza/foodgram/backend/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger: JSON in production, colored console output otherwise.
func New(env config.Environment) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if env == config.Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}
	return l.Sugar().With("env", env.String()), nil
}

// Nop returns a logger that discards everything; handy in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
