package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelError, ParseLevel(" ERROR "))
	assert.Equal(t, LogLevelInfo, ParseLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLevel("chatty"))
}

func TestLoggerLevelsAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelWarn).WithOutput(log.New(&buf, "", 0)).WithPrefix("UploadService")

	logger.Info("hidden %d", 1)
	logger.Warn("kept %d", 2)
	logger.Error("failed: %s", "disk")

	assert.Equal(t, "[WARN] [UploadService] kept 2\n[ERROR] [UploadService] failed: disk\n", buf.String())
}
