// ABOUTME: YAML configuration file for the toy and its audio engine
// ABOUTME: Loads engine settings and the resource sound catalogue
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/engine"
)

// SoundType selects how a resource makes noise
type SoundType string

const (
	SoundSynth SoundType = "synth"
	SoundFile  SoundType = "file"
)

// Engine holds the engine section of the file
type Engine struct {
	Backend       string        `yaml:"backend"`
	SampleRate    int           `yaml:"sample_rate"`
	Channels      int           `yaml:"channels"`
	MasterGain    float64       `yaml:"master_gain"`
	LowPassHz     float64       `yaml:"lowpass_hz"`
	ResumeTimeout time.Duration `yaml:"resume_timeout"`
}

// Sound describes the sound profile of a resource
type Sound struct {
	Type SoundType      `yaml:"type"`
	Src  []string       `yaml:"src,omitempty"`
	Freq float64        `yaml:"freq,omitempty"`
	Wave audio.Waveform `yaml:"wave,omitempty"`
}

// Resource is a tappable thing on the resource display screen
type Resource struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Emoji    string `yaml:"emoji,omitempty"`
	Sound    Sound  `yaml:"sound"`
}

// Config is the whole file
type Config struct {
	Engine    Engine     `yaml:"engine"`
	SoundsDir string     `yaml:"sounds_dir"`
	Resources []Resource `yaml:"resources"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Engine: Engine{
			SampleRate:    engine.DefaultSampleRate,
			Channels:      engine.DefaultChannels,
			MasterGain:    engine.DefaultMasterGain,
			LowPassHz:     engine.DefaultLowPassHz,
			ResumeTimeout: engine.DefaultResumeTimeout,
		},
		Resources: DefaultResources(),
	}
}

// DefaultResources is the built-in catalogue, backed by embedded sounds
func DefaultResources() []Resource {
	return []Resource{
		{ID: "dog", Name: "Dog", Category: "animals", Emoji: "🐶",
			Sound: Sound{Type: SoundFile, Src: []string{"embed:dog01"}}},
		{ID: "cat", Name: "Cat", Category: "animals", Emoji: "🐱",
			Sound: Sound{Type: SoundFile, Src: []string{"embed:cat01", "embed:cat02", "embed:cat03"}}},
		{ID: "car", Name: "Car", Category: "vehicles", Emoji: "🚗",
			Sound: Sound{Type: SoundFile, Src: []string{"embed:car-horn"}}},
		{ID: "bell", Name: "Bell", Category: "things", Emoji: "🔔",
			Sound: Sound{Type: SoundSynth, Freq: 880, Wave: audio.Triangle}},
	}
}

// Load reads path over the defaults. A missing path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Resources) == 0 {
		cfg.Resources = DefaultResources()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the catalogue for mistakes the toy cannot recover from
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, r := range c.Resources {
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("resource %d: missing id", i))
		} else if seen[r.ID] {
			errs = append(errs, fmt.Errorf("resource %q: duplicate id", r.ID))
		}
		seen[r.ID] = true

		switch r.Sound.Type {
		case SoundFile:
			if len(r.Sound.Src) == 0 {
				errs = append(errs, fmt.Errorf("resource %q: file sound without src", r.ID))
			}
		case SoundSynth:
			if r.Sound.Freq <= 0 {
				errs = append(errs, fmt.Errorf("resource %q: synth sound needs a positive freq", r.ID))
			}
		default:
			errs = append(errs, fmt.Errorf("resource %q: unknown sound type %q", r.ID, r.Sound.Type))
		}
	}
	if c.Engine.SampleRate < 0 || c.Engine.Channels < 0 {
		errs = append(errs, errors.New("engine: sample_rate and channels must not be negative"))
	}
	return errors.Join(errs...)
}

// EngineConfig maps the engine section onto an engine configuration
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		SampleRate:    c.Engine.SampleRate,
		Channels:      c.Engine.Channels,
		MasterGain:    c.Engine.MasterGain,
		LowPassHz:     c.Engine.LowPassHz,
		ResumeTimeout: c.Engine.ResumeTimeout,
	}
}
