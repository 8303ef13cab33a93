// Package logging configures the process-wide zerolog logger.
//
// Call Init once from main.  Until then a JSON logger at info level
// writing to stderr is in place, so packages can log during start-up.
//
//	logging.Info().Str("addr", addr).Msg("listening")
//	logging.Error().Err(err).Msg("publish failed")
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, fatal,
	// panic or disabled.  Default: info.
	Level string
	// Format is json or console.  Default: json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	configure(Config{})
}

// Init reconfigures the global logger.  It is safe to call more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	configure(cfg)
}

// must be called with mu held
func configure(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}
	log = zerolog.New(out).With().Timestamp().Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With returns a child logger carrying a component field.
func With(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

// Debug starts a debug level message.
func Debug() *zerolog.Event { l := Logger(); return l.Debug() }

// Info starts an info level message.
func Info() *zerolog.Event { l := Logger(); return l.Info() }

// Warn starts a warn level message.
func Warn() *zerolog.Event { l := Logger(); return l.Warn() }

// Error starts an error level message.
func Error() *zerolog.Event { l := Logger(); return l.Error() }

// Fatal starts a fatal level message; Msg exits the process.
func Fatal() *zerolog.Event { l := Logger(); return l.Fatal() }
