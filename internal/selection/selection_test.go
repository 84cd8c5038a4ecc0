package selection_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"mixprep/internal/metadata"
	"mixprep/internal/selection"
)

const recordYAML = `stem_dir: Song_STEM
mix_filename: Song_MIX.wav
artist: Someone
stems:
  S01:
    filename: Song_STEM_01.wav
    instrument: "  Acoustic Guitar "
  S02:
    filename: Song_STEM_02.wav
    instrument: theremin
  S03:
    filename: Song_STEM_03.wav
    instrument:
      name: DRUM SET
      family: percussion
  S04:
    filename: Song_STEM_04.wav
    instrument: piano
  S05:
    filename: Song_STEM_05.wav
    instrument:
      family: mystery
`

func setup(t *testing.T, present ...string) (*metadata.Record, string) {
	t.Helper()
	rec, err := metadata.Parse([]byte(recordYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dir := t.TempDir()
	stemDir := filepath.Join(dir, "Song_STEM")
	if err := os.MkdirAll(stemDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range present {
		if err := os.WriteFile(filepath.Join(stemDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return rec, dir
}

func TestFilterKeepsAllowedExistingStems(t *testing.T) {
	rec, dir := setup(t, "Song_STEM_01.wav", "Song_STEM_02.wav", "Song_STEM_03.wav", "Song_STEM_05.wav")
	allow := selection.NewAllowSet([]string{"acoustic guitar", "Drum Set", "piano", ""})

	res, err := selection.Filter(rec, dir, allow)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got, want := res.Record.StemIDs(), []string{"S01", "S03", "S05"}; !slices.Equal(got, want) {
		t.Fatalf("kept %v, want %v", got, want)
	}
	wantFiles := []string{
		filepath.Join(dir, "Song_STEM", "Song_STEM_01.wav"),
		filepath.Join(dir, "Song_STEM", "Song_STEM_03.wav"),
		filepath.Join(dir, "Song_STEM", "Song_STEM_05.wav"),
	}
	if !slices.Equal(res.Files, wantFiles) {
		t.Fatalf("files %v, want %v", res.Files, wantFiles)
	}
	reasons := map[string]string{}
	for _, d := range res.Dropped {
		reasons[d.StemID] = d.Reason
	}
	if reasons["S02"] != selection.ReasonNotAllowed || reasons["S04"] != selection.ReasonMissingFile || len(reasons) != 2 {
		t.Fatalf("unexpected drops %+v", res.Dropped)
	}
	if res.Empty() {
		t.Fatal("expected non-empty result")
	}
}

func TestFilterOutputIsSubsetOfAllowSet(t *testing.T) {
	rec, dir := setup(t, "Song_STEM_01.wav", "Song_STEM_02.wav", "Song_STEM_03.wav", "Song_STEM_04.wav", "Song_STEM_05.wav")
	allow := selection.NewAllowSet([]string{"piano", "theremin"})

	res, err := selection.Filter(rec, dir, allow)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(res.Record.Stems) > len(rec.Stems) {
		t.Fatalf("filter grew the record")
	}
	for _, stem := range res.Record.Stems {
		if !allow.Allows(stem.Instrument.Normalized()) {
			t.Fatalf("stem %s with %q is not allowed", stem.ID, stem.Instrument.Normalized())
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	rec, dir := setup(t)
	before, err := rec.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := selection.Filter(rec, dir, selection.NewAllowSet([]string{"piano"})); err != nil {
		t.Fatal(err)
	}
	after, err := rec.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) || len(rec.Stems) != 5 {
		t.Fatal("input record changed")
	}
}

func TestFilterNothingToMix(t *testing.T) {
	rec, dir := setup(t)
	res, err := selection.Filter(rec, dir, selection.NewAllowSet([]string{"tuba"}))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !res.Empty() || len(res.Record.Stems) != 0 || len(res.Dropped) != 5 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}
