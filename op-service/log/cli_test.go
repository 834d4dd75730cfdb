package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/mattn/go-isatty"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"
)

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in  string
		out slog.Level
	}{
		{"trace", log.LevelTrace},
		{"DEBUG", log.LevelDebug},
		{"dbug", log.LevelDebug},
		{"info", log.LevelInfo},
		{"warn", log.LevelWarn},
		{"eror", log.LevelError},
		{"crit", log.LevelCrit},
	} {
		lvl, err := LevelFromString(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.out, lvl, tc.in)
	}
	_, err := LevelFromString("loud")
	require.Error(t, err)
}

func readConfig(t *testing.T, args ...string) CLIConfig {
	var cfg CLIConfig
	app := cli.NewApp()
	app.Flags = CLIFlags("OP_TEST")
	app.Action = func(ctx *cli.Context) error {
		cfg = ReadCLIConfig(ctx)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"test"}, args...)))
	return cfg
}

func TestReadCLIConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		expected := DefaultCLIConfig()
		expected.Color = isatty.IsTerminal(os.Stdout.Fd())
		require.Equal(t, expected, readConfig(t))
	})
	t.Run("custom", func(t *testing.T) {
		cfg := readConfig(t, "--log.level=debug", "--log.format=json", "--log.color")
		require.Equal(t, CLIConfig{Level: log.LevelDebug, Format: FormatJSON, Color: true}, cfg)
	})
	t.Run("invalid format", func(t *testing.T) {
		app := cli.NewApp()
		app.Flags = CLIFlags("OP_TEST")
		app.Action = func(ctx *cli.Context) error { return nil }
		require.Error(t, app.Run([]string{"test", "--log.format=xml"}))
	})
}

func TestDynamicLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHandler(&buf, CLIConfig{Level: log.LevelInfo, Format: FormatLogFmt})
	logger := log.NewLogger(h)

	logger.Debug("hidden")
	require.Empty(t, buf.String())
	logger.Info("shown", "height", 42)
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "height=42")

	setter, ok := h.(LvlSetter)
	require.True(t, ok)
	setter.SetLogLevel(log.LevelDebug)
	buf.Reset()
	logger.Debug("now visible")
	require.Contains(t, buf.String(), "now visible")

	derived := h.WithAttrs([]slog.Attr{slog.String("component", "chain")})
	setter.SetLogLevel(log.LevelError)
	require.False(t, derived.Enabled(context.Background(), log.LevelWarn), "derived handlers share the level")
}
