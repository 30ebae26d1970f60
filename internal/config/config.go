package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-features-mcp/internal/features"
	"github.com/ironsheep/image-features-mcp/internal/imaging"
)

// AppName is the directory name used under the XDG config home.
const AppName = "image-features-mcp"

// Config holds the pipeline parameters.
type Config struct {
	// Threshold is the FAST intensity difference.
	Threshold int `yaml:"threshold" json:"threshold"`

	// CornerContext names the sampling circle: "9_16" or "7_12".
	CornerContext string `yaml:"corner_context" json:"corner_context"`

	// PatchRadius is the half-size of the orientation patch.
	PatchRadius int `yaml:"patch_radius" json:"patch_radius"`

	// DescriptorLength is the number of BRIEF tests.
	DescriptorLength int `yaml:"descriptor_length" json:"descriptor_length"`

	// Keypoints is the number of keypoints kept per image.
	Keypoints int `yaml:"keypoints" json:"keypoints"`

	// BlurRadius is the Gaussian radius applied before description.
	BlurRadius float64 `yaml:"blur_radius" json:"blur_radius"`

	// PatternSeed seeds the sampling pattern. Descriptors from different
	// seeds are not comparable.
	PatternSeed int64 `yaml:"pattern_seed" json:"pattern_seed"`

	// MaxDimension downscales larger images before detection; 0 disables it.
	MaxDimension int `yaml:"max_dimension" json:"max_dimension"`

	// Workers bounds pipeline goroutines; 0 means one per CPU.
	Workers int `yaml:"workers" json:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Threshold:        features.DefaultThreshold,
		CornerContext:    features.Context9_16.String(),
		PatchRadius:      features.DefaultPatchRadius,
		DescriptorLength: features.DefaultDescriptorLength,
		Keypoints:        features.DefaultKeypointCount,
		BlurRadius:       imaging.DefaultBlurRadius,
		PatternSeed:      features.DefaultPatternSeed,
	}
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Threshold <= 0 {
		return ErrInvalidThreshold
	}
	if _, err := features.ParseContextVariant(c.CornerContext); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidContext, c.CornerContext)
	}
	if c.PatchRadius <= 0 {
		return ErrInvalidPatchRadius
	}
	if c.DescriptorLength <= 0 {
		return ErrInvalidDescriptorLength
	}
	if c.Keypoints <= 0 {
		return ErrInvalidKeypoints
	}
	if c.BlurRadius < 0 {
		return ErrInvalidBlurRadius
	}
	if c.MaxDimension < 0 {
		return ErrInvalidMaxDimension
	}
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	return nil
}

// Options converts the configuration to extractor options.
func (c *Config) Options() (features.Options, error) {
	if err := c.Validate(); err != nil {
		return features.Options{}, err
	}
	variant, err := features.ParseContextVariant(c.CornerContext)
	if err != nil {
		return features.Options{}, err
	}
	workers := c.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return features.Options{
		Variant:     variant,
		Threshold:   c.Threshold,
		PatchRadius: c.PatchRadius,
		Count:       c.Keypoints,
		Workers:     workers,
	}, nil
}

// Load reads a YAML file on top of the defaults. Fields missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the configuration file to use: explicit when non-empty,
// otherwise the XDG location if a file exists there. An empty string means
// no file was found.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path, err := xdg.SearchConfigFile(AppName + "/config.yaml")
	if err != nil {
		return ""
	}
	return path
}

// Resolve loads the file chosen by Find, or returns the defaults when there
// is none. An explicit path that does not exist is an error.
func Resolve(explicit string) (*Config, error) {
	path := Find(explicit)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
