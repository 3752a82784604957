package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// BaseDefault returns the upstream base defaults before any
// build-time overrides are applied.
func BaseDefault() *StaticConfig {
	return &StaticConfig{
		Output:           "json",
		Toolsets:         []string{"pods", "endpoints", "serverless", "templates", "network-volumes", "registry-auth"},
		RestAPIURL:       DefaultRestAPIURL,
		ServerlessAPIURL: DefaultServerlessAPIURL,
	}
}

// Default returns the effective default configuration, with any
// downstream build-time overrides (from defaultOverrides) merged
// on top of the base defaults.
func Default() *StaticConfig {
	base := BaseDefault()
	overrides := defaultOverrides()
	merged := mergeConfig(*base, overrides)
	return &merged
}

// mergeConfig applies non-zero values from override to base using TOML serialization.
// In case of any error during marshalling or unmarshalling, it returns the base config unchanged.
func mergeConfig(base, override StaticConfig) StaticConfig {
	var overrideBuffer bytes.Buffer
	if err := toml.NewEncoder(&overrideBuffer).Encode(override); err != nil {
		return base
	}

	_, _ = toml.NewDecoder(&overrideBuffer).Decode(&base)
	return base
}
