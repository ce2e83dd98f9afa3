package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// impl is a Logger over a zap SugaredLogger whose core is gated by an atomic level.
type impl struct {
	*zap.SugaredLogger
	name  string
	level zap.AtomicLevel
	core  zapcore.Core
}

func newImpl(name string, level Level, cores ...zapcore.Core) *impl {
	atomic := zap.NewAtomicLevelAt(level.AsZap())
	core := zapcore.NewTee(cores...)
	return &impl{
		SugaredLogger: zap.New(&levelCore{Core: core, level: atomic}, zap.AddCaller()).Sugar().Named(name),
		name:          name,
		level:         atomic,
		core:          core,
	}
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}

	// subloggers start at their parent's level but may be changed independently
	atomic := zap.NewAtomicLevelAt(imp.level.Level())
	return &impl{
		SugaredLogger: zap.New(&levelCore{Core: imp.core, level: atomic}, zap.AddCaller()).Sugar().Named(newName),
		name:          newName,
		level:         atomic,
		core:          imp.core,
	}
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level.AsZap())
}

func (imp *impl) GetLevel() Level {
	switch imp.level.Level() {
	case zapcore.DebugLevel:
		return DEBUG
	case zapcore.WarnLevel:
		return WARN
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return ERROR
	case zapcore.InfoLevel, zapcore.InvalidLevel:
		return INFO
	}
	return INFO
}

// levelCore filters entries of the wrapped core through an atomic level, so that SetLevel applies to
// loggers that have already been handed out.
type levelCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *levelCore) Enabled(level zapcore.Level) bool {
	return c.level.Enabled(level) && c.Core.Enabled(level)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(entry.Level) {
		return checked
	}
	return c.Core.Check(entry, checked)
}
