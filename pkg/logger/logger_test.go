package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugfOnlyInVerboseMode(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	Debugf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestLevelsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Infof("scanning %s", "src")
	Warnf("skipping %s", "lib")
	Errorf("failed: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, "level=info msg=scanning src")
	assert.Contains(t, out, "level=warning msg=skipping lib")
	assert.Contains(t, out, "level=error msg=failed: boom")
}
