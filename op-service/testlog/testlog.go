// Package testlog provides a log handler for unit tests.
package testlog

import (
	"bytes"
	"log/slog"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

var useColorInTestLog = os.Getenv("OP_TESTLOG_DISABLE_COLOR") != "true"

// Testing interface to log to. Standard Go testing.TB implements this.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
	Name() string
	Cleanup(func())
}

// testWriter forwards complete lines to the test log.
// Writes after the test has finished are dropped, since the testing package panics on those.
type testWriter struct {
	t    Testing
	mu   sync.Mutex
	buf  bytes.Buffer
	done bool
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return len(p), nil
	}
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// keep the partial line for the next write
			w.buf.Write(line)
			break
		}
		w.t.Logf("%s", bytes.TrimRight(line, "\n"))
	}
	return len(p), nil
}

func (w *testWriter) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.done = true
}

// Logger returns a logger which logs to the unit test log of t.
func Logger(t Testing, level slog.Level) log.Logger {
	t.Helper()
	w := &testWriter{t: t}
	t.Cleanup(w.close)
	return log.NewLogger(log.NewTerminalHandlerWithLevel(w, level, useColorInTestLog))
}
