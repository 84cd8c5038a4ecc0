package track_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"mixprep/internal/failure"
	"mixprep/internal/layout"
	"mixprep/internal/testsupport"
	"mixprep/internal/track"
)

func fourStems() []testsupport.StemSpec {
	return []testsupport.StemSpec{
		{Instrument: "piano", Seconds: 0.5},
		{Instrument: "Drum Set", Family: "percussion", Seconds: 0.25},
		{Instrument: "", Family: "unknown", Seconds: 0.5},
		{NoInstrument: true, Seconds: 0.75},
	}
}

func TestOpenWellFormedTrack(t *testing.T) {
	dir := testsupport.WriteTrack(t, t.TempDir(), testsupport.TrackSpec{
		Name:      "Band_Song",
		Stems:     fourStems(),
		FlatStems: true,
	})

	mt, err := track.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if mt.Name() != "Band_Song" {
		t.Fatalf("name = %q", mt.Name())
	}
	if got := mt.Instruments(); !slices.Equal(got, []string{"piano", "Drum Set"}) {
		t.Fatalf("instruments = %v", got)
	}
	if mt.HasBleed() {
		t.Fatal("expected no bleed")
	}
	if mt.Activations() == nil || mt.Metadata() == nil {
		t.Fatal("expected activations and metadata")
	}

	stems, err := mt.Stems()
	if err != nil {
		t.Fatalf("stems: %v", err)
	}
	if len(stems) != 4 {
		t.Fatalf("expected 4 stems, got %d", len(stems))
	}

	third, err := mt.Stem(3)
	if err != nil {
		t.Fatalf("stem 3: %v", err)
	}
	if third.Len() != 4000 {
		t.Fatalf("stem 3 has %d samples, want 4000", third.Len())
	}
	fourth, err := mt.Stem(4)
	if err != nil {
		t.Fatalf("stem 4: %v", err)
	}
	if fourth.Len() != 6000 {
		t.Fatalf("stem 4 has %d samples, want 6000", fourth.Len())
	}

	if _, err := mt.Stem(7); !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mix, err := mt.Mix()
	if err != nil || mix.Len() == 0 {
		t.Fatalf("mix: %v (%d samples)", err, mix.Len())
	}
}

func TestOpenFindsStemsInStemDir(t *testing.T) {
	dir := testsupport.WriteTrack(t, t.TempDir(), testsupport.TrackSpec{
		Name:  "Nested",
		Stems: fourStems()[:2],
	})
	mt, err := track.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	paths := mt.StemPaths()
	if len(paths) != 2 || filepath.Base(paths[0]) != layout.StemName("Nested", 1) {
		t.Fatalf("unexpected stem paths %v", paths)
	}
}

func TestOpenRequiresEveryFile(t *testing.T) {
	cases := []struct {
		name string
		spec testsupport.TrackSpec
	}{
		{"missing mix", testsupport.TrackSpec{Name: "A", Stems: fourStems(), SkipMix: true}},
		{"missing metadata", testsupport.TrackSpec{Name: "B", Stems: fourStems(), SkipMetadata: true}},
		{"missing activation", testsupport.TrackSpec{Name: "C", Stems: fourStems(), SkipActivation: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testsupport.WriteTrack(t, t.TempDir(), tc.spec)
			mt, err := track.Open(dir)
			if !errors.Is(err, failure.ErrMissingFile) {
				t.Fatalf("expected missing file error, got %v", err)
			}
			if mt != nil {
				t.Fatal("expected no track on failure")
			}
		})
	}
}

func TestOpenRejectsActivationWithoutTime(t *testing.T) {
	dir := testsupport.WriteTrack(t, t.TempDir(), testsupport.TrackSpec{Name: "D", Stems: fourStems()})
	path := layout.ForDir(dir).ActivationPath()
	if err := os.WriteFile(path, []byte("S01,S02\n0.1,0.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mt, err := track.Open(dir)
	if !errors.Is(err, failure.ErrSchema) || mt != nil {
		t.Fatalf("expected schema error, got %v", err)
	}
}
