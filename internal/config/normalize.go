package config

import (
	"fmt"
	"os"
	"strings"

	"mixprep/internal/textutil"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMixing()
	if c.Download.TimeoutSeconds <= 0 {
		c.Download.TimeoutSeconds = defaultDownloadTimeout
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		env      string
		value    *string
		fallback string
	}{
		{"paths.audio_dir", "MIXPREP_AUDIO_DIR", &c.Paths.AudioDir, defaultAudioDir},
		{"paths.modified_dir", "MIXPREP_MODIFIED_DIR", &c.Paths.ModifiedDir, defaultModifiedDir},
		{"paths.download_dir", "MIXPREP_DOWNLOAD_DIR", &c.Paths.DownloadDir, defaultDownloadDir},
		{"paths.error_log", "MIXPREP_ERROR_LOG", &c.Paths.ErrorLog, defaultErrorLog},
		{"paths.log_dir", "MIXPREP_LOG_DIR", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		value := strings.TrimSpace(*field.value)
		if value == "" || value == field.fallback {
			if env, ok := os.LookupEnv(field.env); ok && strings.TrimSpace(env) != "" {
				value = strings.TrimSpace(env)
			}
		}
		if value == "" {
			value = field.fallback
		}
		expanded, err := expandPath(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeMixing() {
	if c.Mixing.AllowedInstruments == nil {
		c.Mixing.AllowedInstruments = DefaultInstruments()
	}
	c.Mixing.AllowedInstruments = textutil.NormalizeLabels(c.Mixing.AllowedInstruments)
	if c.Mixing.Workers <= 0 {
		c.Mixing.Workers = defaultWorkers
	}
	if c.Mixing.SampleSize < 0 {
		c.Mixing.SampleSize = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
