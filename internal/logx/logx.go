package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level and output format of a logger.
type Options struct {
	Level  string    // trace, debug, info, warn, error (default info)
	Format string    // "console" (default) or "json"
	Out    io.Writer // defaults to os.Stderr
}

// NewLogger returns a zerolog logger configured from opts.
// Console output pads the caller column so messages line up.
func NewLogger(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var w io.Writer = out
	if opts.Format != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
		zerolog.CallerMarshalFunc = shortCaller
	}

	return zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}

// shortCaller keeps only the file name and pads it to 28 characters.
func shortCaller(pc uintptr, file string, line int) string {
	short := file
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		short = file[i+1:]
	}
	return fmt.Sprintf("%-28s", fmt.Sprintf("%s:%d", short, line))
}
