package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/bridgectl/internal/logging"
)

// InitLogger builds the process logger from the logging profile and
// installs it as the zerolog global.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	cfg := logging.Active()

	var out io.Writer = os.Stdout
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
	}
	logger := zerolog.New(out).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
