// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string // debug, info, warn, or error
	Format string // console or json

	// If set, JSON lines are also written to File, rotated at MaxSizeMB.
	File      string
	MaxSizeMB int
}

// Setup returns a logger writing to w (stderr if nil) and a closer for the
// log file, if one was opened.
func Setup(opts Options, w io.Writer) (zerolog.Logger, io.Closer) {
	if w == nil {
		w = os.Stderr
	}
	if opts.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 100
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: 3,
			MaxAge:     30,
		}
		w = zerolog.MultiLevelWriter(w, lj)
		closer = lj
	}

	return zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(opts.Level)), closer
}

// ParseLevel defaults to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
