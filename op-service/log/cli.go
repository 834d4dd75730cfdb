package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	opservice "github.com/mantlenetworkio/chainview/op-service"
)

const (
	LevelFlagName  = "log.level"
	FormatFlagName = "log.format"
	ColorFlagName  = "log.color"
)

// FormatType defines a type of log format.
// Supported formats: 'text', 'terminal', 'logfmt', 'json'
type FormatType string

const (
	FormatText     FormatType = "text"
	FormatTerminal FormatType = "terminal"
	FormatLogFmt   FormatType = "logfmt"
	FormatJSON     FormatType = "json"
)

// formatValue is a cli.Generic, parsing and validating the log format.
type formatValue FormatType

func (fv *formatValue) Set(v string) error {
	switch FormatType(v) {
	case FormatText, FormatTerminal, FormatLogFmt, FormatJSON:
		*fv = formatValue(v)
		return nil
	default:
		return fmt.Errorf("unrecognized log format: %q", v)
	}
}

func (fv *formatValue) String() string {
	return string(*fv)
}

// levelValue is a cli.Generic, parsing and validating the log level.
type levelValue slog.Level

func (lv *levelValue) Set(v string) error {
	lvl, err := LevelFromString(v)
	if err != nil {
		return err
	}
	*lv = levelValue(lvl)
	return nil
}

func (lv *levelValue) String() string {
	return strings.ToLower(log.LevelString(slog.Level(*lv)))
}

// LevelFromString parses a level name, accepting both the geth names and the slog names.
func LevelFromString(lvlString string) (slog.Level, error) {
	switch strings.ToLower(lvlString) {
	case "trace", "trce":
		return log.LevelTrace, nil
	case "debug", "dbug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error", "eror":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelDebug, fmt.Errorf("unknown level: %v", lvlString)
	}
}

func CLIFlags(envPrefix string) []cli.Flag {
	return CLIFlagsWithCategory(envPrefix, "")
}

func CLIFlagsWithCategory(envPrefix string, category string) []cli.Flag {
	return []cli.Flag{
		&cli.GenericFlag{
			Name:     LevelFlagName,
			Category: category,
			Usage:    "The lowest log level that will be output",
			Value:    func() *levelValue { v := levelValue(log.LevelInfo); return &v }(),
			EnvVars:  opservice.PrefixEnvVar(envPrefix, "LOG_LEVEL"),
		},
		&cli.GenericFlag{
			Name:     FormatFlagName,
			Category: category,
			Usage:    "Format the log output. Supported formats: 'text', 'terminal', 'logfmt', 'json'",
			Value:    func() *formatValue { v := formatValue(FormatText); return &v }(),
			EnvVars:  opservice.PrefixEnvVar(envPrefix, "LOG_FORMAT"),
		},
		&cli.BoolFlag{
			Name:     ColorFlagName,
			Category: category,
			Usage:    "Color the log output if in terminal mode",
			EnvVars:  opservice.PrefixEnvVar(envPrefix, "LOG_COLOR"),
		},
	}
}

type CLIConfig struct {
	Level  slog.Level
	Color  bool
	Format FormatType
}

func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Level:  log.LevelInfo,
		Format: FormatText,
	}
}

func ReadCLIConfig(ctx *cli.Context) CLIConfig {
	cfg := DefaultCLIConfig()
	if v, ok := ctx.Generic(LevelFlagName).(*levelValue); ok && v != nil {
		cfg.Level = slog.Level(*v)
	}
	if v, ok := ctx.Generic(FormatFlagName).(*formatValue); ok && v != nil {
		cfg.Format = FormatType(*v)
	}
	if ctx.IsSet(ColorFlagName) {
		cfg.Color = ctx.Bool(ColorFlagName)
	} else {
		cfg.Color = isatty.IsTerminal(os.Stdout.Fd())
	}
	return cfg
}

// NewLogger creates a logger writing to wr, with a dynamic level filter,
// so the level can be changed at runtime through LvlSetter.
func NewLogger(wr io.Writer, cfg CLIConfig) log.Logger {
	return log.NewLogger(NewLogHandler(wr, cfg))
}

func NewLogHandler(wr io.Writer, cfg CLIConfig) slog.Handler {
	var h slog.Handler
	switch cfg.Format {
	case FormatJSON:
		h = JSONHandler(wr)
	case FormatLogFmt:
		h = LogfmtHandler(wr)
	default:
		h = log.NewTerminalHandlerWithLevel(wr, levelMaxVerbosity, cfg.Color)
	}
	return NewDynamicLogHandler(cfg.Level, h)
}

// SetGlobalLogHandler replaces the root logger of the go-ethereum log package.
func SetGlobalLogHandler(h slog.Handler) {
	log.SetDefault(log.NewLogger(h))
}

// SetupDefaults installs a default terminal logger at info level,
// used until the CLI flags have been read.
func SetupDefaults() {
	SetGlobalLogHandler(NewLogHandler(os.Stdout, DefaultCLIConfig()))
}

// LvlSetter is implemented by handlers of which the minimum level can be changed.
type LvlSetter interface {
	SetLogLevel(lvl slog.Level)
}

// DynamicLogHandler filters records below a minimum level that can be changed at any time.
type DynamicLogHandler struct {
	slog.Handler
	minLvl *atomic.Int64
}

var _ LvlSetter = (*DynamicLogHandler)(nil)

func NewDynamicLogHandler(lvl slog.Level, h slog.Handler) *DynamicLogHandler {
	minLvl := new(atomic.Int64)
	minLvl.Store(int64(lvl))
	return &DynamicLogHandler{Handler: h, minLvl: minLvl}
}

func (d *DynamicLogHandler) SetLogLevel(lvl slog.Level) {
	d.minLvl.Store(int64(lvl))
}

func (d *DynamicLogHandler) Unwrap() slog.Handler {
	return d.Handler
}

func (d *DynamicLogHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return lvl >= slog.Level(d.minLvl.Load()) && d.Handler.Enabled(ctx, lvl)
}

func (d *DynamicLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DynamicLogHandler{Handler: d.Handler.WithAttrs(attrs), minLvl: d.minLvl}
}

func (d *DynamicLogHandler) WithGroup(name string) slog.Handler {
	return &DynamicLogHandler{Handler: d.Handler.WithGroup(name), minLvl: d.minLvl}
}

// AppOut returns an io.Writer to write app output to, like logs.
// This falls back to os.Stdout if the ctx, ctx.App or ctx.App.Writer are nil.
func AppOut(ctx *cli.Context) io.Writer {
	if ctx == nil || ctx.App == nil || ctx.App.Writer == nil {
		return os.Stdout
	}
	return ctx.App.Writer
}
