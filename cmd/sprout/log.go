package main

import (
	"fmt"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logMaxAge       = 7 * 24 * time.Hour
	logRotationTime = 24 * time.Hour
)

/*
newLogger returns a logger writing to STDERR with a console encoder, at
debug level if verbose is set and at info level otherwise. If logFile is
not empty, entries are also written as JSON to daily rotated files with
that path prefix.
*/
func newLogger(verbose bool, logFile string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), level),
	}
	if logFile != "" {
		w, err := rotatelogs.New(
			logFile+"_%Y-%m-%d.log",
			rotatelogs.WithLinkName(logFile+"_last.log"),
			rotatelogs.WithMaxAge(logMaxAge),
			rotatelogs.WithRotationTime(logRotationTime),
		)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %v", logFile, err)
		}
		fileConfig := zap.NewProductionEncoderConfig()
		fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(w), zapcore.DebugLevel))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// Logf logs a formatted message at info level
func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	rcc.logger.Sugar().Infof(format, a...)
}

// Debugf logs a formatted message at debug level
func (rcc *rootCmdConfig) Debugf(format string, a ...interface{}) {
	rcc.logger.Sugar().Debugf(format, a...)
}

// fail logs err and exits the process with the given code
func (rcc *rootCmdConfig) fail(code int, err error) {
	rcc.logger.Error(err.Error())
	rcc.teardown()
	os.Exit(code)
}
