package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const EnvLogLevel = "TSAVE_LOG_LEVEL"

// Init installs a console logger on stderr as the global zerolog logger.
// The level comes from TSAVE_LOG_LEVEL, then level, then info.
func Init(app, level string) zerolog.Logger {
	return initTo(os.Stderr, app, level)
}

func initTo(w io.Writer, app, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}

	lvl := ParseLevel(level)
	if env, ok := os.LookupEnv(EnvLogLevel); ok {
		lvl = ParseLevel(env)
	}

	logger := zerolog.New(output).Level(lvl).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func Nop() zerolog.Logger {
	return zerolog.Nop()
}
