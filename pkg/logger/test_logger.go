package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a logger implementation for testing that captures all log messages
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	zerolog  *zerolog.Logger
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	nopLogger := zerolog.Nop()
	return &TestLogger{
		messages: make([]LogMessage, 0),
		zerolog:  &nopLogger,
	}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  fields,
		Error:   err,
	})
}

// Messages returns a copy of all captured messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// HasMessage checks if a message with the given level and text was logged
func (l *TestLogger) HasMessage(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m.Level == level && m.Message == msg {
			return true
		}
	}
	return false
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields, nil)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields, nil)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields, nil)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields, nil)
}

func (l *TestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.log("FATAL", msg, fields, nil)
}

// WithField adds a field to the logger context
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return &testLoggerContext{
		parent: l,
		fields: map[string]interface{}{key: value},
	}
}

// WithFields adds multiple fields to the logger context
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	copied := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &testLoggerContext{parent: l, fields: copied}
}

// WithError adds an error to the logger context
func (l *TestLogger) WithError(err error) Logger {
	return &testLoggerContext{parent: l, err: err}
}

// GetZerolog returns a no-op zerolog instance
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return l.zerolog
}

// testLoggerContext carries accumulated fields and errors back to the parent TestLogger
type testLoggerContext struct {
	parent *TestLogger
	fields map[string]interface{}
	err    error
}

func (c *testLoggerContext) merge(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (c *testLoggerContext) Debug(msg string) { c.parent.log("DEBUG", msg, c.fields, c.err) }
func (c *testLoggerContext) Info(msg string)  { c.parent.log("INFO", msg, c.fields, c.err) }
func (c *testLoggerContext) Warn(msg string)  { c.parent.log("WARN", msg, c.fields, c.err) }
func (c *testLoggerContext) Error(msg string) { c.parent.log("ERROR", msg, c.fields, c.err) }
func (c *testLoggerContext) Fatal(msg string) { c.parent.log("FATAL", msg, c.fields, c.err) }

func (c *testLoggerContext) DebugWithFields(msg string, fields map[string]interface{}) {
	c.parent.log("DEBUG", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) InfoWithFields(msg string, fields map[string]interface{}) {
	c.parent.log("INFO", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) WarnWithFields(msg string, fields map[string]interface{}) {
	c.parent.log("WARN", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) ErrorWithFields(msg string, fields map[string]interface{}) {
	c.parent.log("ERROR", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) FatalWithFields(msg string, fields map[string]interface{}) {
	c.parent.log("FATAL", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) WithField(key string, value interface{}) Logger {
	return &testLoggerContext{
		parent: c.parent,
		fields: c.merge(map[string]interface{}{key: value}),
		err:    c.err,
	}
}

func (c *testLoggerContext) WithFields(fields map[string]interface{}) Logger {
	return &testLoggerContext{
		parent: c.parent,
		fields: c.merge(fields),
		err:    c.err,
	}
}

func (c *testLoggerContext) WithError(err error) Logger {
	return &testLoggerContext{
		parent: c.parent,
		fields: c.fields,
		err:    err,
	}
}

func (c *testLoggerContext) GetZerolog() *zerolog.Logger {
	return c.parent.zerolog
}
