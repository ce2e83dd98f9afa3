package logging

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestObservedLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("debug line", "voxels", 27)
	logger.Infof("info %d", 1)
	logger.Warn("warn")
	logger.Error("error")

	entries := logs.All()
	test.That(t, entries, test.ShouldHaveLength, 4)
	test.That(t, entries[0].Message, test.ShouldEqual, "debug line")
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.DebugLevel)
	test.That(t, entries[0].ContextMap()["voxels"], test.ShouldEqual, int64(27))
	test.That(t, entries[1].Message, test.ShouldEqual, "info 1")
	test.That(t, entries[3].Level, test.ShouldEqual, zapcore.ErrorLevel)
}

func TestSetLevel(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].Message, test.ShouldEqual, "kept")
}

func TestSublogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("distfield")
	subsub := sub.Sublogger("workers")

	sub.Info("from sub")
	subsub.Info("from subsub")
	entries := logs.All()
	test.That(t, entries, test.ShouldHaveLength, 2)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "distfield")
	test.That(t, entries[1].LoggerName, test.ShouldEqual, "distfield.workers")

	// levels are independent once created
	sub.SetLevel(ERROR)
	sub.Info("dropped")
	logger.Info("kept")
	test.That(t, logs.Len(), test.ShouldEqual, 3)
}

func TestBlankLogger(t *testing.T) {
	logger := NewBlankLogger("blank")
	logger.Info("nothing")
	test.That(t, logger.Desugar(), test.ShouldNotBeNil)
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestGlobal(t *testing.T) {
	before := Global()
	defer ReplaceGlobal(before)

	logger := NewBlankLogger("global")
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
}

func TestLevelStrings(t *testing.T) {
	for _, level := range []Level{DEBUG, INFO, WARN, ERROR} {
		parsed, err := LevelFromString(level.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, level)
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var cfg struct {
		Level Level `json:"level"`
	}
	test.That(t, json.Unmarshal([]byte(`{"level": "warn"}`), &cfg), test.ShouldBeNil)
	test.That(t, cfg.Level, test.ShouldEqual, WARN)
	test.That(t, json.Unmarshal([]byte(`{"level": "loud"}`), &cfg), test.ShouldNotBeNil)
}
