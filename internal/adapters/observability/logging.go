package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to w (stdout when nil).
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(env string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stdout}).
			With().Timestamp().Logger()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// OpenLogFile opens path for appending. An empty path discards output, which
// is what a full-screen terminal host wants when no log file is configured.
func OpenLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
