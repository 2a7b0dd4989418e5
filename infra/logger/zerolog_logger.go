package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// zerologAdapter implements Logger on top of rs/zerolog.
type zerologAdapter struct {
	log zerolog.Logger
}

// NewZerologLogger builds a component-tagged logger. APP_ENV=dev switches to
// the human readable console writer, LOG_LEVEL overrides the default info
// threshold.
func NewZerologLogger(component string) Logger {
	out := zerolog.LevelWriter(zerolog.MultiLevelWriter(os.Stdout))
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		out = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}

	z := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("component", component).
		Logger()
	return &zerologAdapter{log: z}
}

func (l *zerologAdapter) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologAdapter) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologAdapter) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologAdapter) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
