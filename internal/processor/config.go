package processor

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LabelRule selects how the active-sample count of a chunk maps to a label.
type LabelRule string

const (
	// LabelRuleLegacy labels a chunk Silence when at least the minimum number
	// of samples reach the silence threshold. Existing corpora were built
	// with this rule, so it stays the default.
	LabelRuleLegacy LabelRule = "legacy"

	// LabelRuleActivity labels a chunk Signal when at least the minimum
	// number of samples reach the silence threshold.
	LabelRuleActivity LabelRule = "activity"
)

// Config holds the recording format and segmentation parameters shared by
// calibration, classification, transform and output. All stages of one run
// must use the same Config.
type Config struct {
	// Input (and output) audio format. Raw files carry no header, so these
	// are never detected from the data.
	Channels      int `yaml:"channels"`
	SampleRate    int `yaml:"sample_rate"`
	BitsPerSample int `yaml:"bits_per_sample"` // only 32 is supported

	// Calibration window
	InitialSkipSecs     float64 `yaml:"initial_skip_secs"`     // recordings start with a hardware glitch
	SilenceTrainingSecs float64 `yaml:"silence_training_secs"` // known-silent span after the glitch
	ThresholdFactor     float64 `yaml:"threshold_factor"`      // multiplier over peak silence, must be > 1

	// Classification
	ValidPercent float64   `yaml:"valid_percent"` // percentage of samples that must reach the threshold
	LabelRule    LabelRule `yaml:"label_rule"`

	// Output
	ChunkFrames int    `yaml:"chunk_frames"` // frames per output record
	DropPercent int    `yaml:"drop_percent"` // randomly drop this percentage of records
	Seed        uint64 `yaml:"seed"`         // 0 seeds from the clock
}

// DefaultConfig returns the parameters of the 8-microphone capture rig.
func DefaultConfig() *Config {
	return &Config{
		Channels:      8,
		SampleRate:    24000,
		BitsPerSample: 32,

		InitialSkipSecs:     0.5,
		SilenceTrainingSecs: 1.0,
		ThresholdFactor:     1.1,

		ValidPercent: 10,
		LabelRule:    LabelRuleLegacy,

		ChunkFrames: 512,
		DropPercent: 95,
		Seed:        0,
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot honour.
func (c *Config) Validate() error {
	switch {
	case c.Channels <= 0:
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	case c.SampleRate <= 0:
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	case c.BitsPerSample != 32:
		return fmt.Errorf("bits_per_sample must be 32, got %d", c.BitsPerSample)
	case c.InitialSkipSecs < 0 || math.IsNaN(c.InitialSkipSecs):
		return fmt.Errorf("initial_skip_secs must not be negative, got %v", c.InitialSkipSecs)
	case c.SilenceTrainingSecs <= 0 || math.IsNaN(c.SilenceTrainingSecs):
		return fmt.Errorf("silence_training_secs must be positive, got %v", c.SilenceTrainingSecs)
	case !(c.ThresholdFactor > 1):
		return fmt.Errorf("threshold_factor must be greater than 1, got %v", c.ThresholdFactor)
	case c.ValidPercent < 0 || c.ValidPercent > 100 || math.IsNaN(c.ValidPercent):
		return fmt.Errorf("valid_percent must be within 0-100, got %v", c.ValidPercent)
	case c.ChunkFrames <= 0:
		return fmt.Errorf("chunk_frames must be positive, got %d", c.ChunkFrames)
	case c.DropPercent < 0 || c.DropPercent > 100:
		return fmt.Errorf("drop_percent must be within 0-100, got %d", c.DropPercent)
	}

	switch c.LabelRule {
	case LabelRuleLegacy, LabelRuleActivity:
	default:
		return fmt.Errorf("unknown label_rule %q (want %q or %q)", c.LabelRule, LabelRuleLegacy, LabelRuleActivity)
	}
	return nil
}

// ChunkLen returns the number of samples in one chunk across all channels.
func (c *Config) ChunkLen() int {
	return c.ChunkFrames * c.Channels
}

// MinActiveSamples returns how many samples of a chunk must reach the
// silence threshold for the label rule to fire.
func (c *Config) MinActiveSamples() int {
	return int(math.Ceil(float64(c.ChunkLen()) * c.ValidPercent / 100.0))
}

// SecondsToOffset converts a duration to a sample offset that always lands
// on a frame boundary.
func SecondsToOffset(sampleRate, channels int, secs float64) int {
	return int(math.Floor(float64(sampleRate)*secs)) * channels
}
