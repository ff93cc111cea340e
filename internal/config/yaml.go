package config

import (
	"bytes"
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/spf13/viper"
)

func marshalYAML(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(defaults(cfg))
	if err != nil {
		return nil, fmt.Errorf("config: marshalling manifest: %w", err)
	}
	return data, nil
}

// FromYAML parses a manifest previously written by ToYAML.
func FromYAML(data []byte) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Config{}, fmt.Errorf("config: parsing manifest: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing manifest: %w", err)
	}
	return cfg, nil
}
