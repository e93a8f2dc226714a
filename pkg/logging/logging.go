// Package logging wires a logr.Logger front-end (the interface every other
// package in this daemon logs through) to a go.uber.org/zap backend via
// go-logr/zapr, the same pairing sigs.k8s.io/controller-runtime/pkg/log/zap
// wraps internally.
package logging

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logr.Logger from the resolved daemon settings.
//
// level is the 0-5 scale from the original prototype's boost::log severity
// levels (0=trace, 1=debug, 2=info, 3=warning, 4=error, 5=fatal); it is
// mapped onto zap's inverted, smaller-is-more-verbose scale by negating a
// verbosity count, the same convention logr's V(n) uses. color selects a
// console encoder (ANSI-colored level field) over a JSON encoder. An empty
// file path logs to stderr; otherwise the named file is opened for append.
func New(level int, color bool, file string) (logr.Logger, func() error, error) {
	var sink zapcore.WriteSyncer = zapcore.AddSync(os.Stderr)
	closer := func() error { return nil }
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return logr.Logger{}, nil, err
		}
		sink = zapcore.AddSync(f)
		closer = f.Close
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, sink, zapLevelFor(level))
	zl := zap.New(core, zap.AddCaller())
	return zapr.NewLogger(zl), closer, nil
}

// zapLevelFor maps the 0-5 severity scale onto a zapcore.Level. Trace (0)
// sits one step below zap's DebugLevel, where logr's V(2) output lands;
// debug (1) is DebugLevel, where V(1) output lands.
func zapLevelFor(level int) zapcore.Level {
	switch {
	case level <= 0:
		return zapcore.DebugLevel - 1
	case level == 1:
		return zapcore.DebugLevel
	case level == 2:
		return zapcore.InfoLevel
	case level == 3:
		return zapcore.WarnLevel
	case level == 4:
		return zapcore.ErrorLevel
	default:
		return zapcore.FatalLevel
	}
}
