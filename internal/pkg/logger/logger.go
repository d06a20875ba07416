// Package logger builds the process-wide slog.Logger from configuration.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"marketplace/internal/pkg/errs"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w. An empty level means info and an empty
// format means text.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("log format",
			fmt.Errorf("%q is neither %s nor %s", format, FormatText, FormatJSON))
	}
}

// ParseLevel accepts debug, info, warn and error in any case, with an optional
// offset such as "info+2".
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, errs.NewValueIsInvalidErrorWithCause("log level", err)
	}
	return lvl, nil
}
