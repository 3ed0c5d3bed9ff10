package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestResolveLevel(t *testing.T) {
	testCases := []struct {
		name     string
		opts     Options
		expected zapcore.Level
		wantErr  bool
	}{
		{"quiet by default", Options{}, zapcore.WarnLevel, false},
		{"verbose", Options{Verbose: true}, zapcore.InfoLevel, false},
		{"explicit level", Options{Level: "error"}, zapcore.ErrorLevel, false},
		{"explicit level beats verbose", Options{Level: "warn", Verbose: true}, zapcore.WarnLevel, false},
		{"debug beats everything", Options{Debug: true, Level: "error"}, zapcore.DebugLevel, false},
		{"invalid level", Options{Level: "chatty"}, zapcore.InfoLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			level, err := ResolveLevel(tc.opts)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestNew(t *testing.T) {
	log, err := New(Options{Debug: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(Options{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	_, err = New(Options{Level: "chatty"})
	assert.Error(t, err)

	assert.NotNil(t, NewLogger(false))
}
