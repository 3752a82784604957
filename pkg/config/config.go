package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"k8s.io/klog/v2"
)

const (
	DefaultRestAPIURL       = "https://rest.runpod.io/v1"
	DefaultServerlessAPIURL = "https://api.runpod.ai/v2"
	// APIKeyEnvVar holds the bearer credential used for every RunPod request.
	APIKeyEnvVar = "RUNPOD_API_KEY"
)

// StaticConfig is the configuration for the server.
// It allows to configure server specific settings and tools to be enabled or disabled.
type StaticConfig struct {
	LogLevel int    `toml:"log_level,omitzero"`
	Port     string `toml:"port,omitempty"`
	// Output is the format used to render RunPod responses (json or yaml)
	Output string `toml:"output,omitempty"`
	// When true, expose only tools annotated with readOnlyHint=true
	ReadOnly bool `toml:"read_only,omitempty"`
	// When true, disable tools annotated with destructiveHint=true
	DisableDestructive bool `toml:"disable_destructive,omitempty"`
	// When true, the streamable HTTP transport keeps no session state
	Stateless          bool     `toml:"stateless,omitempty"`
	Toolsets           []string `toml:"toolsets,omitempty"`
	EnabledTools       []string `toml:"enabled_tools,omitempty"`
	DisabledTools      []string `toml:"disabled_tools,omitempty"`
	ServerInstructions string   `toml:"server_instructions,omitempty"`

	// RestAPIURL is the base URL of the RunPod resource API (pods, endpoints, templates...).
	RestAPIURL string `toml:"rest_api_url,omitempty"`
	// ServerlessAPIURL is the base URL of the RunPod job-execution API (run, status, cancel...).
	ServerlessAPIURL string `toml:"serverless_api_url,omitempty"`
	// RequestTimeout bounds every outbound RunPod request (e.g. "30s"). Empty means no deadline.
	RequestTimeout string `toml:"request_timeout,omitempty"`

	Telemetry TelemetryConfig `toml:"telemetry,omitempty"`
}

// GetRequestTimeout parses RequestTimeout, returning 0 when unset.
func (c *StaticConfig) GetRequestTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: must not be negative", c.RequestTimeout)
	}
	return d, nil
}

// Read reads the toml file, applies drop-in configs from configDir (if provided),
// and returns the resulting StaticConfig.
// Loading order: defaults → main config file → drop-in files (lexically sorted)
func Read(configPath string, configDir string) (*StaticConfig, error) {
	cfg := Default()

	if configPath != "" {
		klog.V(2).Infof("Loading main config from: %s", configPath)
		if err := mergeConfigFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("failed to load main config file %s: %w", configPath, err)
		}
	}

	if configDir != "" {
		if err := loadDropInConfigs(cfg, configDir); err != nil {
			return nil, fmt.Errorf("failed to load drop-in configs from %s: %w", configDir, err)
		}
	}

	return cfg, nil
}

// mergeConfigFile decodes a config file on top of cfg.
// Keys absent from the file leave the current values untouched.
func mergeConfigFile(cfg *StaticConfig, filePath string) error {
	configData, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if _, err = toml.NewDecoder(bytes.NewReader(configData)).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode TOML: %w", err)
	}
	return nil
}

func loadDropInConfigs(cfg *StaticConfig, dropInDir string) error {
	info, err := os.Stat(dropInDir)
	if err != nil {
		if os.IsNotExist(err) {
			klog.V(2).Infof("Drop-in config directory does not exist, skipping: %s", dropInDir)
			return nil
		}
		return fmt.Errorf("failed to stat drop-in directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("drop-in config path is not a directory: %s", dropInDir)
	}

	files, err := getSortedConfigFiles(dropInDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		klog.V(2).Infof("No drop-in config files found in: %s", dropInDir)
		return nil
	}

	klog.V(2).Infof("Loading %d drop-in config file(s) from: %s", len(files), dropInDir)
	for _, file := range files {
		klog.V(3).Infof("  - Merging drop-in config: %s", filepath.Base(file))
		if err := mergeConfigFile(cfg, file); err != nil {
			return fmt.Errorf("failed to merge drop-in config %s: %w", file, err)
		}
	}
	return nil
}

// getSortedConfigFiles returns the lexically sorted .toml files in dir, dotfiles excluded.
func getSortedConfigFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".toml") {
			klog.V(4).Infof("Skipping drop-in candidate: %s", name)
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// ReadToml reads the toml data on top of the defaults and returns the StaticConfig
func ReadToml(configData []byte) (*StaticConfig, error) {
	config := Default()
	if _, err := toml.NewDecoder(bytes.NewReader(configData)).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}
