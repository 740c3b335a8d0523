package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "BRIDGECTL_LOG_LEVEL"
	EnvLogJSON    = "BRIDGECTL_LOG_JSON"
	EnvLogNoColor = "BRIDGECTL_LOG_NOCOLOR"
)

// Config is the process-wide logging profile after environment
// overrides are applied.
type Config struct {
	Level   zerolog.Level
	JSON    bool
	NoColor bool
}

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var (
	configureOnce sync.Once
	active        Config
)

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure resolves the profile once per process. Later calls with a
// different profile keep the first resolution.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)
		zerolog.SetGlobalLevel(cfg.Level)
		active = cfg
	})
}

// Active returns the resolved profile, configuring the runtime profile
// when nothing ran first.
func Active() Config {
	ConfigureRuntime()
	return active
}

func defaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return Config{Level: zerolog.InfoLevel}
	}
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogJSON)); ok {
		cfg.JSON = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return zerolog.InfoLevel, false
	case "warning":
		raw = "warn"
	case "off", "none", "inactive":
		raw = "disabled"
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
