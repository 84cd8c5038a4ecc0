package layout

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	metadataSuffix   = "_METADATA.yaml"
	activationSuffix = "_ACTIVATION_CONF.lab"
	mixSuffix        = "_MIX"
	stemInfix        = "_STEM_"
)

var stemIndexPattern = regexp.MustCompile(`_STEM_(\d+)\.wav$`)

// MetadataName returns the metadata filename for a track.
func MetadataName(track string) string { return track + metadataSuffix }

// ActivationName returns the activation-confidence filename for a track.
func ActivationName(track string) string { return track + activationSuffix }

// MixName returns the mix filename for a track.
func MixName(track string) string { return track + mixSuffix + ".wav" }

// StemName returns the filename of the stem with the given index.
func StemName(track string, index int) string {
	return fmt.Sprintf("%s%s%02d.wav", track, stemInfix, index)
}

// StemGlob returns the glob pattern matching every stem of a track inside dir.
func StemGlob(dir, track string) string {
	return filepath.Join(dir, track+stemInfix+"*.wav")
}

// StemIndex extracts the numeric stem index encoded in a stem filename.
func StemIndex(name string) (int, bool) {
	match := stemIndexPattern.FindStringSubmatch(filepath.Base(name))
	if match == nil {
		return 0, false
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return index, true
}

// SongName derives the song directory name from a mix filename by dropping the
// extension and the _MIX marker.
func SongName(mixFilename string) string {
	base := filepath.Base(mixFilename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, mixSuffix, "")
}

// Track bundles the conventional file locations of one track directory.
type Track struct {
	Dir  string
	Name string
}

// ForDir builds a Track whose name is the directory's base name.
func ForDir(dir string) Track {
	clean := filepath.Clean(dir)
	return Track{Dir: clean, Name: filepath.Base(clean)}
}

func (t Track) MetadataPath() string   { return filepath.Join(t.Dir, MetadataName(t.Name)) }
func (t Track) ActivationPath() string { return filepath.Join(t.Dir, ActivationName(t.Name)) }
func (t Track) MixPath() string        { return filepath.Join(t.Dir, MixName(t.Name)) }
func (t Track) StemGlob() string       { return StemGlob(t.Dir, t.Name) }
