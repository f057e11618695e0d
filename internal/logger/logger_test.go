package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0)

	l.Debug("hidden")
	l.Info("shown", "user_id", "42")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "user_id=42")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, -4).With("request_id", "abc")

	l.Debug("request")

	assert.Contains(t, buf.String(), "request_id=abc")
}
