package mixer_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"mixprep/internal/audio"
	"mixprep/internal/layout"
	"mixprep/internal/loudness"
	"mixprep/internal/metadata"
	"mixprep/internal/mixer"
	"mixprep/internal/selection"
	"mixprep/internal/testsupport"
)

func TestCombineIsOrderIndependent(t *testing.T) {
	a := testsupport.Sine(220, 8000, 0.5, 0.3)
	b := testsupport.Sine(330, 8000, 1.0, 0.2)
	c := testsupport.Sine(550, 8000, 0.75, 0.4)

	abc := mixer.Combine([]audio.Signal{a, b, c})
	cab := mixer.Combine([]audio.Signal{c, a, b})
	if abc.Len() != cab.Len() {
		t.Fatalf("length mismatch %d vs %d", abc.Len(), cab.Len())
	}
	for i := range abc.Samples {
		if math.Abs(abc.Samples[i]-cab.Samples[i]) > 1e-12 {
			t.Fatalf("sample %d differs: %v vs %v", i, abc.Samples[i], cab.Samples[i])
		}
	}
}

func TestCombinePadsShorterStems(t *testing.T) {
	short := testsupport.Sine(220, 8000, 1, 0.3)
	long := testsupport.Sine(330, 8000, 2, 0.2)

	mix := mixer.Combine([]audio.Signal{short, long})
	if mix.Len() != long.Len() || mix.Duration().Seconds() != 2 {
		t.Fatalf("expected 2s output, got %d samples", mix.Len())
	}
	for i := range mix.Samples {
		want := long.Samples[i]
		if i < short.Len() {
			want += short.Samples[i]
		}
		want /= 2
		if math.Abs(mix.Samples[i]-want) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, mix.Samples[i], want)
		}
	}
	if short.Len() != 8000 {
		t.Fatal("input was modified")
	}
}

func TestCombineEmpty(t *testing.T) {
	if got := mixer.Combine(nil); got.Len() != 0 {
		t.Fatalf("expected empty signal, got %d samples", got.Len())
	}
}

func TestMixFilesResamplesToFirstRate(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.wav")
	second := filepath.Join(dir, "b.wav")
	testsupport.WriteWAV(t, first, testsupport.Sine(220, 8000, 1, 0.3))
	testsupport.WriteWAV(t, second, testsupport.Sine(440, 16000, 1, 0.1))

	m := mixer.New(loudness.DefaultTargetLUFS, nil)
	mix, unnormalized, err := m.MixFiles(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("mix: %v", err)
	}
	if mix.SampleRate != 8000 {
		t.Fatalf("expected 8000 Hz, got %d", mix.SampleRate)
	}
	if mix.Len() != 8000 {
		t.Fatalf("expected 8000 samples, got %d", mix.Len())
	}
	if len(unnormalized) != 0 {
		t.Fatalf("unexpected unnormalized stems %v", unnormalized)
	}
}

func TestMixFilesPassesSilentStemThrough(t *testing.T) {
	dir := t.TempDir()
	loud := filepath.Join(dir, "loud.wav")
	silent := filepath.Join(dir, "silent.wav")
	testsupport.WriteWAV(t, loud, testsupport.Sine(220, 8000, 1, 0.3))
	testsupport.WriteWAV(t, silent, audio.Signal{Samples: make([]float64, 4000), SampleRate: 8000})

	m := mixer.New(-23, nil)
	mix, unnormalized, err := m.MixFiles(context.Background(), []string{loud, silent})
	if err != nil {
		t.Fatalf("mix: %v", err)
	}
	if !slices.Equal(unnormalized, []string{silent}) {
		t.Fatalf("unnormalized = %v", unnormalized)
	}
	for i, s := range mix.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("sample %d is not finite", i)
		}
	}
}

func TestMixFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := mixer.New(-23, nil)
	if _, _, err := m.MixFiles(ctx, []string{"irrelevant.wav"}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestMixTrackWritesDeclaredMix(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteTrack(t, root, testsupport.TrackSpec{
		Name:    "Band_Song",
		SkipMix: true,
		Stems: []testsupport.StemSpec{
			{Instrument: "piano", Seconds: 1},
			{Instrument: "theremin", Seconds: 1.5},
		},
	})

	m := mixer.New(-23, nil)
	report, err := m.MixTrack(context.Background(), dir)
	if err != nil {
		t.Fatalf("mix track: %v", err)
	}
	want := filepath.Join(dir, "Band_Song_MIX.wav")
	if report.MixPath != want || len(report.Stems) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	mix, err := audio.Load(want)
	if err != nil {
		t.Fatalf("load mix: %v", err)
	}
	if mix.SampleRate != 8000 || mix.Len() != 12000 {
		t.Fatalf("mix has %d samples at %d Hz", mix.Len(), mix.SampleRate)
	}
}

func TestMixTrackMissingMetadata(t *testing.T) {
	m := mixer.New(-23, nil)
	if _, err := m.MixTrack(context.Background(), filepath.Join(t.TempDir(), "Nope")); err == nil {
		t.Fatal("expected error for missing metadata")
	}
}

func TestMixFilteredWritesMixAndTrimmedMetadata(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	dir := testsupport.WriteTrack(t, root, testsupport.TrackSpec{
		Name: "Band_Song",
		Stems: []testsupport.StemSpec{
			{Instrument: "Piano"},
			{Instrument: "theremin"},
			{Instrument: "Drum Set", Family: "percussion"},
			{Instrument: "cello", Missing: true},
		},
	})
	source := testsupport.ReadFile(t, layout.ForDir(dir).MetadataPath())

	m := mixer.New(-23, nil)
	allow := selection.NewAllowSet([]string{"piano", "drum set", "cello"})
	report, err := m.MixFiltered(context.Background(), dir, out, allow)
	if err != nil {
		t.Fatalf("mix filtered: %v", err)
	}
	if report.NothingToMix || len(report.Stems) != 2 || len(report.Dropped) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if want := filepath.Join(out, "Band_Song", "Band_Song_MIX.wav"); report.MixPath != want {
		t.Fatalf("mix path %s, want %s", report.MixPath, want)
	}
	if _, err := os.Stat(report.MixPath); err != nil {
		t.Fatalf("mix not written: %v", err)
	}

	rec, err := metadata.Load(filepath.Join(out, "Band_Song", "Band_Song_METADATA.yaml"))
	if err != nil {
		t.Fatalf("load trimmed metadata: %v", err)
	}
	if got := rec.StemIDs(); !slices.Equal(got, []string{"S01", "S03"}) {
		t.Fatalf("trimmed stems %v", got)
	}
	if rec.MixFilename != "Band_Song_MIX.wav" || rec.StemDir != "Band_Song_STEM" {
		t.Fatalf("fields not carried over: %+v", rec)
	}
	if string(testsupport.ReadFile(t, layout.ForDir(dir).MetadataPath())) != string(source) {
		t.Fatal("source metadata was modified")
	}
}

func TestMixFilteredNothingToMix(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	dir := testsupport.WriteTrack(t, root, testsupport.TrackSpec{
		Name:  "Quiet_Song",
		Stems: []testsupport.StemSpec{{Instrument: "theremin"}},
	})

	m := mixer.New(-23, nil)
	report, err := m.MixFiltered(context.Background(), dir, out, selection.NewAllowSet([]string{"piano"}))
	if err != nil {
		t.Fatalf("mix filtered: %v", err)
	}
	if !report.NothingToMix {
		t.Fatal("expected nothing to mix")
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no output, found %d entries", len(entries))
	}
}
