package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. Services receive it via constructor
// options and log with key-value pairs.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
