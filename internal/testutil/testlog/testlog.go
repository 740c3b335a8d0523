package testlog

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/bridgectl/internal/logging"
)

// Start configures the test logging profile and routes the global
// logger through t so log lines attach to the failing test.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	log.Logger = logger
	logger.Debug().Str("test", t.Name()).Msg("start")
}
