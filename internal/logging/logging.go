// Package logging prepares the zap logger used by the sqlfrag command.
//
// Logs always go to stderr so that stdout carries only command output, which
// keeps built queries pipeable.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported levels.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// Levels lists supported level names in order of verbosity.
func Levels() []string { return []string{LevelNone, LevelNormal, LevelDebug} }

// New returns console logger writing to stderr at requested level.
func New(level string) (*zap.Logger, error) {
	return NewTo(os.Stderr, level)
}

// NewTo is New with configurable destination.
func NewTo(out io.Writer, level string) (*zap.Logger, error) {
	var enabler zap.LevelEnablerFunc
	switch level {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelNormal:
		enabler = func(lvl zapcore.Level) bool { return lvl >= zapcore.InfoLevel }
	case LevelDebug:
		enabler = func(lvl zapcore.Level) bool { return lvl >= zapcore.DebugLevel }
	default:
		return nil, fmt.Errorf("unknown log level '%s', expected one of %v", level, Levels())
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(out)), enabler)
	return zap.New(core), nil
}
