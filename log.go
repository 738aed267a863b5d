package codetiming

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
)

// Logger is the sink receiving announcement and report text. Timers
// default to a stdout logger; a nil Logger disables reporting without
// affecting registry recording.
type Logger func(msg string)

// defaultLogger prints each message to standard output. It reads
// os.Stdout per call so output redirection (as in testable examples)
// is honored.
func defaultLogger(msg string) {
	fmt.Fprintln(os.Stdout, msg)
}

// WriterLogger returns a Logger writing each message to w, one message
// per line.
func WriterLogger(w io.Writer) Logger {
	return func(msg string) {
		fmt.Fprintln(w, msg)
	}
}

// SlogLogger returns a Logger forwarding messages to l at info level.
// A nil l uses slog.Default().
func SlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return func(msg string) {
		l.Info(msg)
	}
}

// ZapLogger returns a Logger forwarding messages to l at info level.
func ZapLogger(l *zap.Logger) Logger {
	return func(msg string) {
		l.Info(msg)
	}
}
