package debuglog

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"", LevelError},
		{"0", LevelNone},
		{"2", LevelWarning},
		{"9", LevelTrace},
		{"-1", LevelError},
		{"verbose", LevelError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFromEnv(tt.in), "input %q", tt.in)
	}
}

func TestThresholdGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := CurrentLevel()
	t.Cleanup(func() {
		SetLevel(prev)
		SetOutput(os.Stderr)
	})

	SetLevel(LevelWarning)
	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	Warnf("shown %d", 2)
	assert.Contains(t, buf.String(), "WARN: shown 2")

	SetLevel(LevelNone)
	buf.Reset()
	Errorf("muted")
	assert.Empty(t, buf.String())
	assert.False(t, Enabled(LevelNone))
}
