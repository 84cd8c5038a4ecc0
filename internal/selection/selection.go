package selection

import (
	"errors"
	"io/fs"
	"os"

	"mixprep/internal/failure"
	"mixprep/internal/metadata"
	"mixprep/internal/textutil"
)

// Drop reasons recorded for stems that do not make it into a filtered mix.
const (
	ReasonNotAllowed  = "not_allowed"
	ReasonMissingFile = "missing_file"
)

// AllowSet holds normalized instrument labels eligible for a filtered mix.
type AllowSet map[string]struct{}

// NewAllowSet normalizes labels and builds a set from them.
func NewAllowSet(labels []string) AllowSet {
	set := make(AllowSet, len(labels))
	for _, label := range labels {
		set[textutil.NormalizeLabel(label)] = struct{}{}
	}
	return set
}

// Allows reports whether label, after normalization, is in the set.
func (a AllowSet) Allows(label string) bool {
	_, ok := a[textutil.NormalizeLabel(label)]
	return ok
}

// Drop names a stem left out of the filtered record.
type Drop struct {
	StemID     string
	Instrument string
	Reason     string
}

// Result is the outcome of filtering a record.
type Result struct {
	// Record is a trimmed copy holding only retained stems.
	Record *metadata.Record
	// Files lists the retained stems' audio paths in record order.
	Files []string
	// Dropped lists every excluded stem in record order.
	Dropped []Drop
}

// Empty reports that no stem survived, meaning there is nothing to mix.
func (r Result) Empty() bool { return len(r.Files) == 0 }

// Filter keeps the stems whose normalized instrument is allowed and whose
// audio file exists under trackDir. The input record is not modified.
func Filter(rec *metadata.Record, trackDir string, allow AllowSet) (Result, error) {
	if rec == nil {
		return Result{}, failure.Wrap(failure.ErrSchema, "selection", "filter", "metadata record is nil", nil)
	}
	var (
		kept    []string
		files   []string
		dropped []Drop
	)
	for _, stem := range rec.Stems {
		label := stem.Instrument.Normalized()
		if _, ok := allow[label]; !ok {
			dropped = append(dropped, Drop{StemID: stem.ID, Instrument: label, Reason: ReasonNotAllowed})
			continue
		}
		path := rec.StemPath(trackDir, stem)
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			dropped = append(dropped, Drop{StemID: stem.ID, Instrument: label, Reason: ReasonMissingFile})
			continue
		case err != nil:
			return Result{}, failure.Wrap(nil, "selection", "stat stem", path, err)
		case info.IsDir():
			dropped = append(dropped, Drop{StemID: stem.ID, Instrument: label, Reason: ReasonMissingFile})
			continue
		}
		kept = append(kept, stem.ID)
		files = append(files, path)
	}
	return Result{Record: rec.Retain(kept), Files: files, Dropped: dropped}, nil
}
