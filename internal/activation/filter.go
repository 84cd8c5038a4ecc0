package activation

import (
	"mixprep/internal/metadata"
)

// FilterTrack keeps the activation columns of srcPath that name a stem in the
// metadata at metadataPath and writes the result to outPath.
func FilterTrack(srcPath, metadataPath, outPath string) (*Table, error) {
	rec, err := metadata.Load(metadataPath)
	if err != nil {
		return nil, err
	}
	table, err := Read(srcPath)
	if err != nil {
		return nil, err
	}
	filtered := table.Filter(rec.StemIDs())
	if err := filtered.Write(outPath); err != nil {
		return nil, err
	}
	return filtered, nil
}
