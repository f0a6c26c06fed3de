package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `envconfig:"LOG_DEBUG" default:"false"`
	PrettyFormat bool `envconfig:"LOG_PRETTY_FORMAT" default:"false"`
}

// Init replaces the global zerolog logger.
func Init(conf Config) {
	InitWithWriter(conf, os.Stdout)
}

func InitWithWriter(conf Config, w io.Writer) {
	if conf.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w}
	}
	l := zerolog.New(w).With().Timestamp().Logger()

	if conf.Debug {
		l = l.Level(zerolog.DebugLevel)
	} else {
		l = l.Level(zerolog.InfoLevel)
	}

	log.Logger = l.With().Caller().Logger()
}
