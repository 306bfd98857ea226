// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/Rrens/storefront-assistant/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sets the global level and output. Console output is used unless
// the format is json or ENV is production.
func Setup(cfg config.LoggingConfig, out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "json") || os.Getenv("ENV") == "production" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
}
