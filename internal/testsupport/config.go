package testsupport

import (
	"path/filepath"
	"testing"

	"mixprep/internal/config"
	"mixprep/internal/textutil"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.ModifiedDir = filepath.Join(base, "modified")
	cfgVal.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfgVal.Paths.ErrorLog = filepath.Join(base, "logs", "error_downloading.txt")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Mixing.AllowedInstruments = textutil.NormalizeLabels(cfgVal.Mixing.AllowedInstruments)
	cfgVal.Mixing.Seed = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithAllowedInstruments replaces the instrument whitelist.
func WithAllowedInstruments(labels ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mixing.AllowedInstruments = textutil.NormalizeLabels(labels)
	}
}

// WithSampleSize bounds how many tracks a filtered run visits.
func WithSampleSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mixing.SampleSize = n
	}
}

// WithWorkers sets the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mixing.Workers = n
	}
}
