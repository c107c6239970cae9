package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncCounter struct {
	syncs int
}

func (s *syncCounter) Write(p []byte) (int, error) {
	return len(p), nil
}

func (s *syncCounter) Sync() error {
	s.syncs++
	return nil
}

func TestRunSyncsLoggerOnEveryExit(t *testing.T) {
	testCases := []struct {
		Name     string
		Args     []string
		Expected int
	}{
		{Name: "Help", Args: []string{"--help"}, Expected: 0},
		{Name: "UnknownCommand", Args: []string{"no-such-command"}, Expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			sink := &syncCounter{}
			core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, zapcore.InfoLevel)
			restore := zap.ReplaceGlobals(zap.New(core))
			defer restore()

			args := os.Args
			os.Args = append([]string{"dxvk-manager"}, tc.Args...)
			defer func() {
				os.Args = args
			}()

			require.Equal(t, tc.Expected, run())
			require.Equal(t, 1, sink.syncs)
		})
	}
}
