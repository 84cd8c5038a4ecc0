package testsupport

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"mixprep/internal/layout"
)

// StemSpec describes one stem of a fixture track.
type StemSpec struct {
	// Instrument is written as a plain label unless Family is set, in which
	// case it becomes {name, family}. NoInstrument omits the field.
	Instrument   string
	Family       string
	NoInstrument bool
	Freq         float64
	Seconds      float64
	Rate         int
	// Missing lists the stem in metadata without writing its audio file.
	Missing bool
}

// TrackSpec describes a fixture track directory.
type TrackSpec struct {
	Name  string
	Stems []StemSpec
	// FlatStems places stem files directly in the track directory instead of
	// the <name>_STEM subdirectory.
	FlatStems      bool
	ExtraColumns   []string
	Rows           int
	SkipMix        bool
	SkipMetadata   bool
	SkipActivation bool
}

// StemID returns the identifier fixture tracks use for stem index i (1-based).
func StemID(i int) string { return fmt.Sprintf("S%02d", i) }

// WriteTrack materializes spec under root and returns the track directory.
func WriteTrack(t testing.TB, root string, spec TrackSpec) string {
	t.Helper()

	dir := filepath.Join(root, spec.Name)
	track := layout.ForDir(dir)
	stemDir := spec.Name + "_STEM"
	if spec.FlatStems {
		stemDir = "."
	}

	for i, stem := range spec.Stems {
		if stem.Missing {
			continue
		}
		rate := stem.Rate
		if rate == 0 {
			rate = 8000
		}
		seconds := stem.Seconds
		if seconds == 0 {
			seconds = 1
		}
		freq := stem.Freq
		if freq == 0 {
			freq = 220 * float64(i+1)
		}
		path := filepath.Join(dir, stemDir, layout.StemName(spec.Name, i+1))
		WriteWAV(t, path, Sine(freq, rate, seconds, 0.3))
	}

	if !spec.SkipMetadata {
		WriteFile(t, track.MetadataPath(), []byte(metadataYAML(spec, stemDir)))
	}
	if !spec.SkipActivation {
		WriteFile(t, track.ActivationPath(), []byte(ActivationCSV(spec)))
	}
	if !spec.SkipMix {
		WriteWAV(t, track.MixPath(), Sine(440, 8000, 1, 0.2))
	}
	return dir
}

func metadataYAML(spec TrackSpec, stemDir string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "album: Fixtures\nstem_dir: %q\nmix_filename: %s\nartist: Test Band\n", stemDir, layout.MixName(spec.Name))
	if len(spec.Stems) == 0 {
		b.WriteString("stems: {}\n")
		return b.String()
	}
	b.WriteString("stems:\n")
	for i, stem := range spec.Stems {
		fmt.Fprintf(&b, "  %s:\n    filename: %s\n", StemID(i+1), layout.StemName(spec.Name, i+1))
		switch {
		case stem.NoInstrument:
		case stem.Family != "":
			fmt.Fprintf(&b, "    instrument:\n      name: %q\n      family: %q\n", stem.Instrument, stem.Family)
		default:
			fmt.Fprintf(&b, "    instrument: %q\n", stem.Instrument)
		}
		fmt.Fprintf(&b, "    component: ''\n")
	}
	return b.String()
}

// ActivationCSV renders the activation table WriteTrack writes for spec: a
// time column, one column per stem, then any extra columns.
func ActivationCSV(spec TrackSpec) string {
	columns := []string{"time"}
	for i := range spec.Stems {
		columns = append(columns, StemID(i+1))
	}
	columns = append(columns, spec.ExtraColumns...)

	rows := spec.Rows
	if rows == 0 {
		rows = 5
	}
	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	b.WriteByte('\n')
	for r := 0; r < rows; r++ {
		fields := make([]string, len(columns))
		fields[0] = fmt.Sprintf("%.3f", float64(r)*0.046)
		for c := 1; c < len(columns); c++ {
			fields[c] = fmt.Sprintf("%.4f", float64((r*7+c*3)%10)/10)
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
