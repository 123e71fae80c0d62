package menu

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Config holds menu defaults, loadable from a YAML file.
type Config struct {
	// AssetsDir is scanned for video files.
	AssetsDir string `yaml:"assets_dir"`
	// AudioDir is scanned for matching audio tracks. Defaults to
	// AssetsDir.
	AudioDir string `yaml:"audio_dir"`
	// Mode preselects the render mode (rgb or ascii).
	Mode string `yaml:"mode"`
	// Fill preselects crop-to-fill over letterboxing.
	Fill bool `yaml:"fill"`
}

// DefaultConfig returns the menu defaults used when no config file is given.
func DefaultConfig() Config {
	return Config{
		AssetsDir: "assets",
		Mode:      "rgb",
	}
}

// LoadConfig reads a YAML config file and fills unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // Path is a caller-provided CLI argument.
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.AssetsDir == "" {
		cfg.AssetsDir = DefaultConfig().AssetsDir
	}

	if cfg.Mode == "" {
		cfg.Mode = DefaultConfig().Mode
	}

	return cfg, nil
}

// ConfigSchema returns the JSON Schema describing the menu config file.
func ConfigSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Menu defaults for video selection and playback.",
		Properties: map[string]*jsonschema.Schema{
			"assets_dir": {
				Type:        "string",
				Description: "Directory scanned for video files.",
			},
			"audio_dir": {
				Type:        "string",
				Description: "Directory scanned for matching audio tracks. Defaults to assets_dir.",
			},
			"mode": {
				Type:        "string",
				Description: "Preselected render mode.",
				Enum:        []any{"rgb", "ascii"},
			},
			"fill": {
				Type:        "boolean",
				Description: "Preselect crop-to-fill over letterboxing.",
			},
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}
