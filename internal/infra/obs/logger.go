package obs

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger configures slog with colorful output for dev/local and JSON elsewhere.
// level is one of debug, info, warn or error; anything else means info.
func NewLogger(env, level string) *slog.Logger {
	lvl := ParseLevel(level)
	writer := os.Stdout
	if env == "dev" || env == "local" {
		return slog.New(tint.NewHandler(writer, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
			AddSource:  lvl == slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: true,
	}))
}

func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
