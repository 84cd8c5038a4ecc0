package track

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"mixprep/internal/activation"
	"mixprep/internal/audio"
	"mixprep/internal/failure"
	"mixprep/internal/fileutil"
	"mixprep/internal/layout"
	"mixprep/internal/metadata"
)

const component = "track"

// MultiTrack is a read-only view over one track directory: its metadata,
// activation table, stem files and mix. A MultiTrack is only ever returned
// fully initialized.
type MultiTrack struct {
	layout      layout.Track
	metadata    *metadata.Record
	activations *activation.Table
	stemPaths   []string
	instruments []string
}

// Open validates dir and loads everything a MultiTrack exposes. It fails
// without returning a value when the metadata, the activation table or the
// mix file is absent, or when the table lacks a time column.
func Open(dir string) (*MultiTrack, error) {
	tr := layout.ForDir(dir)

	rec, err := metadata.Load(tr.MetadataPath())
	if err != nil {
		return nil, err
	}
	table, err := activation.Read(tr.ActivationPath())
	if err != nil {
		return nil, err
	}
	stems, err := findStems(tr, rec.StemDir)
	if err != nil {
		return nil, err
	}
	if !fileutil.Exists(tr.MixPath()) {
		return nil, failure.MissingFile(component, "mix file not found", tr.MixPath())
	}

	return &MultiTrack{
		layout:      tr,
		metadata:    rec,
		activations: table,
		stemPaths:   stems,
		instruments: rec.InstrumentNames(),
	}, nil
}

// findStems lists <track>_STEM_*.wav files in the track directory and in the
// metadata's stem directory when that is a subdirectory, ordered by the index
// encoded in the filename.
func findStems(tr layout.Track, stemDir string) ([]string, error) {
	patterns := []string{tr.StemGlob()}
	if sub := strings.TrimSpace(stemDir); sub != "" && filepath.Clean(sub) != "." {
		patterns = append(patterns, layout.StemGlob(filepath.Join(tr.Dir, sub), tr.Name))
	}
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("list stems: %w", err)
		}
		paths = append(paths, matches...)
	}
	slices.SortStableFunc(paths, func(a, b string) int {
		ia, _ := layout.StemIndex(a)
		ib, _ := layout.StemIndex(b)
		if ia != ib {
			return ia - ib
		}
		return strings.Compare(a, b)
	})
	return slices.Compact(paths), nil
}

// Name returns the track name, which is the directory's base name.
func (m *MultiTrack) Name() string { return m.layout.Name }

// Dir returns the track directory.
func (m *MultiTrack) Dir() string { return m.layout.Dir }

// Instruments lists one instrument label per stem that declares one, in stem
// order. Labels are not de-duplicated.
func (m *MultiTrack) Instruments() []string { return slices.Clone(m.instruments) }

// Metadata returns the parsed metadata record.
func (m *MultiTrack) Metadata() *metadata.Record { return m.metadata }

// Activations returns the activation confidence table.
func (m *MultiTrack) Activations() *activation.Table { return m.activations }

// StemPaths returns the discovered stem audio files in index order.
func (m *MultiTrack) StemPaths() []string { return slices.Clone(m.stemPaths) }

// MixPath returns the location of the track's mix file.
func (m *MultiTrack) MixPath() string { return m.layout.MixPath() }

// HasBleed reports whether stems contain bleed from other sources. Tracks
// opened from a directory are always treated as bleed-free.
func (m *MultiTrack) HasBleed() bool { return false }

// Mix decodes the full mix signal.
func (m *MultiTrack) Mix() (audio.Signal, error) {
	return audio.Load(m.MixPath())
}

// Stem decodes the stem whose filename encodes index. It fails with
// failure.ErrNotFound when no stem file carries that index.
func (m *MultiTrack) Stem(index int) (audio.Signal, error) {
	for _, path := range m.stemPaths {
		if idx, ok := layout.StemIndex(path); ok && idx == index {
			return audio.Load(path)
		}
	}
	return audio.Signal{}, failure.Wrap(failure.ErrNotFound, component, "stem",
		fmt.Sprintf("stem %d not found in %s", index, m.layout.Name), nil)
}

// Stems decodes every stem in index order.
func (m *MultiTrack) Stems() ([]audio.Signal, error) {
	signals := make([]audio.Signal, 0, len(m.stemPaths))
	for _, path := range m.stemPaths {
		sig, err := audio.Load(path)
		if err != nil {
			return nil, err
		}
		signals = append(signals, sig)
	}
	return signals, nil
}
