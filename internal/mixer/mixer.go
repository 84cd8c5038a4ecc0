package mixer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"mixprep/internal/audio"
	"mixprep/internal/failure"
	"mixprep/internal/layout"
	"mixprep/internal/logging"
	"mixprep/internal/loudness"
	"mixprep/internal/metadata"
	"mixprep/internal/selection"
)

// Mixer renders loudness-normalized mixes from stem files.
type Mixer struct {
	TargetLUFS float64
	Logger     *slog.Logger
}

// New builds a mixer that normalizes every stem to target LUFS.
func New(target float64, logger *slog.Logger) *Mixer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Mixer{TargetLUFS: target, Logger: logging.NewComponentLogger(logger, "mixer")}
}

// Report summarizes one mixing operation.
type Report struct {
	Track        string
	Stems        []string
	Dropped      []selection.Drop
	Unnormalized []string
	MixPath      string
	MetadataPath string
	SampleRate   int
	Duration     time.Duration
	// NothingToMix is set when no stem qualified and nothing was written.
	NothingToMix bool
}

// MixFiles loads, normalizes and averages the stems at paths. The first stem
// is read at its native sample rate and every later stem is resampled to it.
// The returned list names stems that were too quiet to normalize and were
// mixed unchanged.
func (m *Mixer) MixFiles(ctx context.Context, paths []string) (audio.Signal, []string, error) {
	if len(paths) == 0 {
		return audio.Signal{}, nil, failure.Wrap(failure.ErrNotFound, "mixer", "mix", "no stems to mix", nil)
	}
	signals := make([]audio.Signal, 0, len(paths))
	var unnormalized []string
	rate := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return audio.Signal{}, nil, err
		}
		var (
			sig audio.Signal
			err error
		)
		if rate == 0 {
			sig, err = audio.Load(path)
			rate = sig.SampleRate
		} else {
			sig, err = audio.LoadAt(path, rate)
		}
		if err != nil {
			return audio.Signal{}, nil, err
		}
		normalized, res := loudness.Normalize(sig, m.TargetLUFS)
		if res.Skipped {
			m.Logger.Warn("stem too quiet to normalize, mixing unchanged",
				slog.String("stem", filepath.Base(path)),
			)
			unnormalized = append(unnormalized, path)
		} else {
			m.Logger.Debug("stem normalized",
				slog.String("stem", filepath.Base(path)),
				slog.Float64("measured_lufs", res.Measured),
				slog.Float64("gain", res.Gain),
			)
		}
		signals = append(signals, normalized)
	}
	return Combine(signals), unnormalized, nil
}

// MixTrack mixes every stem listed in the track's metadata and writes the
// result to the mix filename the metadata declares. No instrument filtering is
// applied. A record without stems is a no-op.
func (m *Mixer) MixTrack(ctx context.Context, trackDir string) (Report, error) {
	track := layout.ForDir(trackDir)
	report := Report{Track: track.Name}
	rec, err := metadata.Load(track.MetadataPath())
	if err != nil {
		return report, err
	}
	paths := make([]string, 0, len(rec.Stems))
	for _, stem := range rec.Stems {
		paths = append(paths, rec.StemPath(track.Dir, stem))
	}
	if len(paths) == 0 {
		m.Logger.Info("no stems to mix", logging.Track(track.Name))
		report.NothingToMix = true
		return report, nil
	}
	report.MixPath = rec.MixPath(track.Dir)
	return m.render(ctx, report, paths)
}

// MixFiltered mixes only the stems whose instrument is in allow and whose
// file exists, then writes <outRoot>/<song>/<mix_filename> along with a
// trimmed <song>_METADATA.yaml. The source track is never modified.
func (m *Mixer) MixFiltered(ctx context.Context, trackDir, outRoot string, allow selection.AllowSet) (Report, error) {
	track := layout.ForDir(trackDir)
	report := Report{Track: track.Name}
	rec, err := metadata.Load(track.MetadataPath())
	if err != nil {
		return report, err
	}
	selected, err := selection.Filter(rec, track.Dir, allow)
	if err != nil {
		return report, err
	}
	report.Dropped = selected.Dropped
	for _, drop := range selected.Dropped {
		m.Logger.Debug("stem dropped",
			logging.Track(track.Name),
			slog.String("stem", drop.StemID),
			slog.String("instrument", drop.Instrument),
			slog.String("reason", drop.Reason),
		)
	}
	if selected.Empty() {
		m.Logger.Info("no valid stems to mix", logging.Track(track.Name))
		report.NothingToMix = true
		return report, nil
	}

	song := layout.SongName(rec.MixFilename)
	if song == "" || song == "." {
		return report, failure.Wrap(failure.ErrSchema, "mixer", "mix filtered", "metadata has no mix_filename", nil)
	}
	songDir := filepath.Join(outRoot, song)
	report.MixPath = filepath.Join(songDir, filepath.Base(rec.MixFilename))
	report, err = m.render(ctx, report, selected.Files)
	if err != nil {
		return report, err
	}

	report.MetadataPath = filepath.Join(songDir, layout.MetadataName(song))
	if err := selected.Record.Save(report.MetadataPath); err != nil {
		return report, err
	}
	m.Logger.Info("saved metadata", logging.Track(track.Name), slog.String("path", report.MetadataPath))
	return report, nil
}

func (m *Mixer) render(ctx context.Context, report Report, paths []string) (Report, error) {
	mix, unnormalized, err := m.MixFiles(ctx, paths)
	if err != nil {
		return report, err
	}
	if err := audio.Write(report.MixPath, mix); err != nil {
		return report, fmt.Errorf("write mix: %w", err)
	}
	report.Stems = paths
	report.Unnormalized = unnormalized
	report.SampleRate = mix.SampleRate
	report.Duration = mix.Duration()
	m.Logger.Info("saved mix",
		logging.Track(report.Track),
		slog.String("path", report.MixPath),
		slog.Int("stems", len(paths)),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}
