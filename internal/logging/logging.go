// Package logging builds the structured logger shared by the CLI and the
// simulation packages.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is given.
const DefaultLevel = "info"

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error", "fatal").
func New(w io.Writer, level string) (*log.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "fizz",
		Level:           lvl,
	}), nil
}
