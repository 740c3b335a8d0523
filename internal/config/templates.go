package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Template renders a starter config file carrying the defaults.
func Template() (string, error) {
	def := DefaultBridgeConfig()
	raw := fileConfig{
		Node:             def.Node,
		Addr:             def.Addr,
		CorsOrigins:      def.CorsOrigins,
		DefaultCodec:     def.DefaultCodec,
		ReadLimitBytes:   def.ReadLimitBytes,
		HandshakeTimeout: def.HandshakeTimeout.String(),
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return string(data), nil
}

// WriteTemplate writes a starter config to path.
func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}
