package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{
			name:        "debug level with text format",
			level:       "debug",
			format:      "text",
			expectLevel: logrus.DebugLevel,
		},
		{
			name:        "info level with json format",
			level:       "info",
			format:      "json",
			expectLevel: logrus.InfoLevel,
		},
		{
			name:        "error level with json format",
			level:       "error",
			format:      "json",
			expectLevel: logrus.ErrorLevel,
		},
		{
			name:        "invalid level defaults to info",
			level:       "invalid",
			format:      "text",
			expectLevel: logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		existingLogger := logrus.New()
		existingLogger.SetLevel(logrus.DebugLevel)

		logger := NewLogrusAdapterFromLogger(existingLogger)
		require.NotNil(t, logger)

		adapter, ok := logger.(*LogrusAdapter)
		require.True(t, ok)
		assert.Equal(t, existingLogger, adapter.logger)
	})

	t.Run("with nil logger creates new one", func(t *testing.T) {
		logger := NewLogrusAdapterFromLogger(nil)
		require.NotNil(t, logger)

		adapter, ok := logger.(*LogrusAdapter)
		require.True(t, ok)
		assert.NotNil(t, adapter.logger)
	})
}

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		message string
		fields  []Field
	}{
		{
			name:    "Debug with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Debug(msg, fields...) },
			message: "debug message",
			fields:  []Field{{Key: "transaction_id", Value: "tx-1"}},
		},
		{
			name:    "Info with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Info(msg, fields...) },
			message: "info message",
			fields:  []Field{{Key: "category", Value: "Food"}},
		},
		{
			name:    "Warn with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Warn(msg, fields...) },
			message: "warn message",
			fields:  []Field{{Key: "strategy", Value: "rules"}},
		},
		{
			name:    "Error with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Error(msg, fields...) },
			message: "error message",
			fields:  []Field{{Key: "run_id", Value: "abc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedAdapter(logrus.DebugLevel)

			tt.logFunc(logger, tt.message, tt.fields...)

			output := buf.String()
			assert.Contains(t, output, tt.message)
			if len(tt.fields) > 0 {
				assert.Contains(t, output, tt.fields[0].Key)
			}
		})
	}
}

func TestLogrusAdapter_WithError(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.ErrorLevel)
	testErr := errors.New("test error")

	logger.WithError(testErr).Error("error occurred")

	output := buf.String()
	assert.Contains(t, output, "error occurred")
	assert.Contains(t, output, "test error")
}

func TestLogrusAdapter_WithField(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)

	logger.WithField("user_id", "u-1").Info("user action")

	output := buf.String()
	assert.Contains(t, output, "user action")
	assert.Contains(t, output, "user_id")
	assert.Contains(t, output, "u-1")
}

func TestLogrusAdapter_WithFields(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)

	logger.WithFields(
		Field{Key: "user_id", Value: "u-1"},
		Field{Key: "groups", Value: 3},
	).Info("scan complete")

	output := buf.String()
	assert.Contains(t, output, "scan complete")
	assert.Contains(t, output, "user_id")
	assert.Contains(t, output, "u-1")
	assert.Contains(t, output, "groups")
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)
	testErr := errors.New("delete failed")

	logger.
		WithField("transaction_id", "tx-9").
		WithField("run_id", "run-1").
		WithError(testErr).
		Error("cleanup aborted")

	output := buf.String()
	assert.Contains(t, output, "cleanup aborted")
	assert.Contains(t, output, "tx-9")
	assert.Contains(t, output, "run-1")
	assert.Contains(t, output, "delete failed")
}

func TestConvertFields(t *testing.T) {
	fields := []Field{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: 42},
		{Key: "key3", Value: true},
	}

	logrusFields := convertFields(fields)

	assert.Len(t, logrusFields, 3)
	assert.Equal(t, "value1", logrusFields["key1"])
	assert.Equal(t, 42, logrusFields["key2"])
	assert.Equal(t, true, logrusFields["key3"])
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
}
