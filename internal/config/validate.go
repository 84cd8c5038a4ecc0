package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	return c.validateMixing()
}

func (c *Config) validatePaths() error {
	if c.Paths.AudioDir == "" {
		return errors.New("paths.audio_dir must be set")
	}
	if c.Paths.ModifiedDir == "" {
		return errors.New("paths.modified_dir must be set")
	}
	if c.Paths.AudioDir == c.Paths.ModifiedDir {
		return errors.New("paths.modified_dir must differ from paths.audio_dir")
	}
	return nil
}

func (c *Config) validateMixing() error {
	target := c.Mixing.TargetLUFS
	if math.IsNaN(target) || math.IsInf(target, 0) || target >= 0 {
		return fmt.Errorf("mixing.target_lufs must be a finite negative value, got %v", target)
	}
	if len(c.Mixing.AllowedInstruments) == 0 {
		return errors.New("mixing.allowed_instruments must list at least one instrument")
	}
	if c.Mixing.Workers < 1 {
		return fmt.Errorf("mixing.workers must be at least 1, got %d", c.Mixing.Workers)
	}
	return nil
}
