package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mixprep/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantAudio := filepath.Join(tempHome, "datasets", "MedleyDB_Format", "Audio")
	if cfg.Paths.AudioDir != wantAudio {
		t.Fatalf("unexpected audio dir: got %q want %q", cfg.Paths.AudioDir, wantAudio)
	}
	if cfg.Mixing.TargetLUFS != -23.0 {
		t.Fatalf("unexpected target lufs: %v", cfg.Mixing.TargetLUFS)
	}
	if cfg.Mixing.SampleSize != 30 {
		t.Fatalf("unexpected sample size: %d", cfg.Mixing.SampleSize)
	}
	if cfg.Download.TimeoutSeconds != 30 {
		t.Fatalf("unexpected download timeout: %d", cfg.Download.TimeoutSeconds)
	}
	if len(cfg.Mixing.AllowedInstruments) != len(config.DefaultInstruments()) {
		t.Fatalf("expected default whitelist, got %d entries", len(cfg.Mixing.AllowedInstruments))
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ModifiedDir, cfg.Paths.DownloadDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.ErrorLog)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.AudioDir); !os.IsNotExist(err) {
		t.Fatalf("audio dir must not be created, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mixprep.toml")

	type payload struct {
		Paths struct {
			AudioDir    string `toml:"audio_dir"`
			ModifiedDir string `toml:"modified_dir"`
		} `toml:"paths"`
		Mixing struct {
			TargetLUFS         float64  `toml:"target_lufs"`
			AllowedInstruments []string `toml:"allowed_instruments"`
			Workers            int      `toml:"workers"`
		} `toml:"mixing"`
	}
	custom := payload{}
	custom.Paths.AudioDir = filepath.Join(tempDir, "audio")
	custom.Paths.ModifiedDir = filepath.Join(tempDir, "modified")
	custom.Mixing.TargetLUFS = -16
	custom.Mixing.AllowedInstruments = []string{"  Piano ", "piano", "Electric Bass", ""}
	custom.Mixing.Workers = 4

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Mixing.TargetLUFS != -16 {
		t.Fatalf("unexpected target: %v", cfg.Mixing.TargetLUFS)
	}
	want := []string{"piano", "electric bass", ""}
	if strings.Join(cfg.Mixing.AllowedInstruments, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected whitelist %q", cfg.Mixing.AllowedInstruments)
	}
	if cfg.Mixing.Workers != 4 {
		t.Fatalf("unexpected workers %d", cfg.Mixing.Workers)
	}
}

func TestLoadRejectsNonNegativeTarget(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(configPath, []byte("[mixing]\ntarget_lufs = 3.0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "target_lufs") {
		t.Fatalf("expected target_lufs validation error, got %v", err)
	}
}

func TestEnvFallbackOverridesDefaultPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	audio := filepath.Join(t.TempDir(), "tracks")
	t.Setenv("MIXPREP_AUDIO_DIR", audio)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.AudioDir != audio {
		t.Fatalf("expected env audio dir %q, got %q", audio, cfg.Paths.AudioDir)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "conf", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load, exists=%v err=%v", exists, err)
	}
}
