package log

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/holiman/uint256"

	elog "github.com/ethereum/go-ethereum/log"
)

const (
	timeFormatMs = "2006-01-02T15:04:05.000-0700"

	// levelMaxVerbosity lets every record through. Level filtering is left to DynamicLogHandler.
	levelMaxVerbosity slog.Level = math.MinInt
)

// JSONHandler renders records as JSON, with the time under "t" and the level under "lvl".
func JSONHandler(wr io.Writer) slog.Handler {
	return slog.NewJSONHandler(wr, msHandlerOptions(false))
}

// LogfmtHandler renders records as logfmt, with millisecond timestamps.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return slog.NewTextHandler(wr, msHandlerOptions(true))
}

func msHandlerOptions(logfmt bool) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: levelMaxVerbosity,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey || attr.Key == slog.LevelKey {
				return renameBuiltin(attr, logfmt)
			}
			return stringifyValue(attr, logfmt)
		},
	}
}

func renameBuiltin(attr slog.Attr, logfmt bool) slog.Attr {
	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			return slog.String("t", v.Format(timeFormatMs))
		}
		return slog.Time("t", v)
	case slog.Level:
		return slog.String("lvl", elog.LevelString(v))
	}
	return attr
}

// stringifyValue prints times in the log time format, and numbers and hashes as plain strings.
func stringifyValue(attr slog.Attr, logfmt bool) slog.Attr {
	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr.Value = slog.StringValue(v.Format(timeFormatMs))
		}
	case *big.Int:
		attr.Value = nilOr(v == nil, v)
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		attr.Value = nilOr(rv.Kind() == reflect.Pointer && rv.IsNil(), v)
	}
	return attr
}

func nilOr(isNil bool, v fmt.Stringer) slog.Value {
	if isNil {
		return slog.StringValue("<nil>")
	}
	return slog.StringValue(v.String())
}
