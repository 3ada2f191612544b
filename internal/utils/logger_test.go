package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Info("hand settled", "session", "g1", "amount", 180)

	out := buf.String()
	assert.Contains(t, out, "hand settled")
	assert.Contains(t, out, "g1")
	assert.Contains(t, out, "180")
}

func TestInitLevel(t *testing.T) {
	var buf bytes.Buffer
	old := Log
	Log = New(&buf)
	defer func() { Log = old }()

	Init("error")
	Log.Info("hidden")
	Log.Error("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	Init("nonsense")
	Log.Info("visible again")
	assert.Contains(t, buf.String(), "visible again")
}
