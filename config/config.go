// Package config encapsulates the archive engine's tunables: padding
// cadence, the flatten threshold, and PBKDF2 iteration count.
// Configuration is stored as a YAML file, loaded with ReadFromFile and
// written back with WriteToFile.
package config

import (
	"fmt"
	"io/ioutil"

	"github.com/ghodss/yaml"
)

// CurrentConfigRevision is the latest configuration revision. Configs
// read from disk that don't match this revision should be migrated up
// before use.
const CurrentConfigRevision = 1

// Minimum PBKDF2 iteration count the envelope codec will accept, per the
// archive format's authentication requirements.
const MinPBKDF2Iterations = 250000

// Config holds the tunables shared by the history, flatten and envelope
// packages. It does not hold credentials: those live in their own
// package and are never serialized alongside engine configuration.
type Config struct {
	path string

	Revision int

	// PaddingCadence is the number of non-pad commands Westley executes
	// between inserting a pad line. 0 disables padding.
	PaddingCadence int

	// FlattenThreshold is the history length past which Workspace
	// invokes the Flattener before saving. 0 disables automatic
	// flattening.
	FlattenThreshold int

	// PBKDF2Iterations is the iteration count the envelope codec uses
	// when deriving a key from a password. Must be >= MinPBKDF2Iterations.
	PBKDF2Iterations int
}

// DefaultConfig returns a Config with spec-compliant defaults: padding
// enabled at a conservative cadence, flattening past a few thousand
// commands, and the floor PBKDF2 iteration count.
func DefaultConfig() *Config {
	return &Config{
		Revision:         CurrentConfigRevision,
		PaddingCadence:   25,
		FlattenThreshold: 2000,
		PBKDF2Iterations: MinPBKDF2Iterations,
	}
}

// Validate reports whether the config's values are usable: a PBKDF2
// iteration count below the floor would silently weaken every archive
// saved with it.
func (cfg Config) Validate() error {
	if cfg.PBKDF2Iterations < MinPBKDF2Iterations {
		return fmt.Errorf("config: PBKDF2Iterations must be >= %d, got %d", MinPBKDF2Iterations, cfg.PBKDF2Iterations)
	}
	if cfg.PaddingCadence < 0 {
		return fmt.Errorf("config: PaddingCadence must be >= 0, got %d", cfg.PaddingCadence)
	}
	if cfg.FlattenThreshold < 0 {
		return fmt.Errorf("config: FlattenThreshold must be >= 0, got %d", cfg.FlattenThreshold)
	}
	return nil
}

// SummaryString creates a pretty string summarizing the configuration,
// useful for log output.
func (cfg Config) SummaryString() string {
	return fmt.Sprintf("\npadding cadence:\t%d\nflatten threshold:\t%d\npbkdf2 iterations:\t%d\n",
		cfg.PaddingCadence, cfg.FlattenThreshold, cfg.PBKDF2Iterations)
}

// ReadFromFile reads a YAML configuration file from path.
func ReadFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{path: path}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetPath assigns the unexported filepath to write the config to.
func (cfg *Config) SetPath(path string) {
	cfg.path = path
}

// Path gives the unexported filepath for a config.
func (cfg Config) Path() string {
	return cfg.path
}

// WriteToFile encodes a configuration to YAML and writes it to path.
func (cfg Config) WriteToFile(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// Copy returns a copy of the Config.
func (cfg *Config) Copy() *Config {
	res := *cfg
	return &res
}
