package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the daemon configuration.
type Config struct {
	// Anchors are the two times the whole routine derives from.
	Anchors AnchorConfig `yaml:"anchors"`

	// Cadences are minimum intervals for the periodic evaluators.
	// The dispatcher guarantees only a lower bound, never exact ticks.
	Cadences CadenceConfig `yaml:"cadences"`

	// Recovery configures when a day tips into recovery mode.
	Recovery RecoveryConfig `yaml:"recovery"`

	DataDir    string `yaml:"data_dir"`
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`

	// GeminiAPIKey comes from the environment, never the config file.
	GeminiAPIKey string `yaml:"-"`
	GeminiModel  string `yaml:"gemini_model"`
}

// AnchorConfig holds the wake estimate and bed target clock times.
type AnchorConfig struct {
	Wake string `yaml:"wake"` // HH:MM local
	Bed  string `yaml:"bed"`  // HH:MM local
}

// CadenceConfig holds evaluator cadences.
type CadenceConfig struct {
	Regenerate time.Duration `yaml:"regenerate"`
	Calibrate  time.Duration `yaml:"calibrate"`
}

// RecoveryConfig holds the recovery-mode policy.
type RecoveryConfig struct {
	OverdueCoreThreshold int `yaml:"overdue_core_threshold"`
}

// Minimum cadences imposed by the platform dispatcher.
const (
	MinRegenerateInterval = 4 * time.Hour
	MinCalibrateInterval  = 15 * time.Minute
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Anchors: AnchorConfig{
			Wake: "08:00",
			Bed:  "23:00",
		},
		Cadences: CadenceConfig{
			Regenerate: MinRegenerateInterval,
			Calibrate:  MinCalibrateInterval,
		},
		Recovery: RecoveryConfig{
			OverdueCoreThreshold: 2,
		},
		DataDir:     "./cadence-data",
		ListenAddr:  "127.0.0.1:8600",
		LogLevel:    "info",
		GeminiModel: "gemini-pro",
	}
}

// Load reads the YAML config file at path over the defaults, then
// applies environment overrides. A missing file is not an error; the
// defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// .env is optional; real environment wins either way
	_ = godotenv.Load()
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks anchor formats and cadence floors.
func (c *Config) Validate() error {
	if _, err := time.Parse("15:04", c.Anchors.Wake); err != nil {
		return fmt.Errorf("invalid wake anchor %q: %w", c.Anchors.Wake, err)
	}
	if _, err := time.Parse("15:04", c.Anchors.Bed); err != nil {
		return fmt.Errorf("invalid bed anchor %q: %w", c.Anchors.Bed, err)
	}
	if c.Cadences.Regenerate < MinRegenerateInterval {
		c.Cadences.Regenerate = MinRegenerateInterval
	}
	if c.Cadences.Calibrate < MinCalibrateInterval {
		c.Cadences.Calibrate = MinCalibrateInterval
	}
	if c.Recovery.OverdueCoreThreshold <= 0 {
		c.Recovery.OverdueCoreThreshold = Default().Recovery.OverdueCoreThreshold
	}
	if c.DataDir == "" {
		c.DataDir = Default().DataDir
	}
	return nil
}
