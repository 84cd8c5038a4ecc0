package batch

import (
	"context"
	"log/slog"
	"path/filepath"

	"mixprep/internal/activation"
	"mixprep/internal/config"
	"mixprep/internal/fetch"
	"mixprep/internal/fileutil"
	"mixprep/internal/layout"
	"mixprep/internal/ledger"
	"mixprep/internal/logging"
	"mixprep/internal/mixer"
	"mixprep/internal/selection"
)

// Skip messages recorded in the ledger.
const (
	MessageNoMetadata     = "no metadata found"
	MessageNothingToMix   = "no valid stems to mix"
	MessageMissingFiles   = "missing files"
	MessageAlreadyPresent = "already exists"
)

// SampleOptions controls which tracks a filtered mix visits.
type SampleOptions struct {
	// All visits every track and ignores Size.
	All  bool
	Size int
	Seed int64
}

// Pipeline runs the dataset preparation jobs over the configured trees.
type Pipeline struct {
	cfg    *config.Config
	runner *Runner
	mixer  *mixer.Mixer
	logger *slog.Logger
}

// NewPipeline wires a pipeline from configuration.
func NewPipeline(cfg *config.Config, runner *Runner, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		runner: runner,
		mixer:  mixer.New(cfg.Mixing.TargetLUFS, logger),
		logger: logger,
	}
}

// MixAll re-renders the declared mix of every track in the audio tree from
// all of its stems.
func (p *Pipeline) MixAll(ctx context.Context) (Summary, error) {
	tasks, err := ListTracks(p.cfg.Paths.AudioDir)
	if err != nil {
		return Summary{Kind: ledger.KindMix}, err
	}
	return p.runner.Run(ctx, ledger.KindMix, tasks, func(ctx context.Context, task Task) (Result, error) {
		if !fileutil.Exists(layout.ForDir(task.Dir).MetadataPath()) {
			return Result{Outcome: ledger.OutcomeSkipped, Message: MessageNoMetadata}, nil
		}
		report, err := p.mixer.MixTrack(ctx, task.Dir)
		if err != nil {
			return Result{}, err
		}
		return fromReport(report), nil
	})
}

// MixFiltered renders whitelist-filtered mixes for a sample of tracks into the
// modified tree, each with its trimmed metadata.
func (p *Pipeline) MixFiltered(ctx context.Context, opts SampleOptions) (Summary, error) {
	tasks, err := ListTracks(p.cfg.Paths.AudioDir)
	if err != nil {
		return Summary{Kind: ledger.KindMixFiltered}, err
	}
	if !opts.All {
		tasks = Sample(tasks, opts.Size, opts.Seed)
	}
	allow := selection.NewAllowSet(p.cfg.Mixing.AllowedInstruments)
	outRoot := p.cfg.Paths.ModifiedDir
	return p.runner.Run(ctx, ledger.KindMixFiltered, tasks, func(ctx context.Context, task Task) (Result, error) {
		if !fileutil.Exists(layout.ForDir(task.Dir).MetadataPath()) {
			return Result{Outcome: ledger.OutcomeSkipped, Message: MessageNoMetadata}, nil
		}
		report, err := p.mixer.MixFiltered(ctx, task.Dir, outRoot, allow)
		if err != nil {
			return Result{}, err
		}
		return fromReport(report), nil
	})
}

// FilterActivations trims the activation table of every track in the modified
// tree to the stems its trimmed metadata keeps. The source table is read from
// the audio tree and the result is written into the modified tree.
func (p *Pipeline) FilterActivations(ctx context.Context) (Summary, error) {
	tasks, err := ListTracks(p.cfg.Paths.ModifiedDir)
	if err != nil {
		return Summary{Kind: ledger.KindFilterActivations}, err
	}
	audioRoot := p.cfg.Paths.AudioDir
	return p.runner.Run(ctx, ledger.KindFilterActivations, tasks, func(ctx context.Context, task Task) (Result, error) {
		source := layout.Track{Dir: filepath.Join(audioRoot, task.Name), Name: task.Name}
		modified := layout.Track{Dir: task.Dir, Name: task.Name}
		if !fileutil.Exists(source.ActivationPath()) || !fileutil.Exists(modified.MetadataPath()) {
			return Result{Outcome: ledger.OutcomeSkipped, Message: MessageMissingFiles}, nil
		}
		table, err := activation.FilterTrack(source.ActivationPath(), modified.MetadataPath(), modified.ActivationPath())
		if err != nil {
			return Result{}, err
		}
		p.logger.Info("saved filtered activation file",
			logging.Track(task.Name),
			slog.String("path", modified.ActivationPath()),
			slog.Int("columns", len(table.Columns)),
		)
		return Result{
			Outcome:    ledger.OutcomeOK,
			OutputPath: modified.ActivationPath(),
			Stems:      len(table.Columns) - 1,
		}, nil
	})
}

// Download fetches one archive with fetcher and records it as a download run.
// A failed fetch is recorded as a failed task; it is never returned as an
// error.
func (p *Pipeline) Download(ctx context.Context, fetcher *fetch.Fetcher, url string) (fetch.Outcome, Summary, error) {
	var outcome fetch.Outcome
	summary, err := p.runner.Run(ctx, ledger.KindDownload, []Task{{Name: url}}, func(ctx context.Context, task Task) (Result, error) {
		outcome = fetcher.Download(ctx, task.Name)
		switch outcome.Status {
		case fetch.StatusDownloaded:
			return Result{Outcome: ledger.OutcomeOK, OutputPath: outcome.Path}, nil
		case fetch.StatusSkipped:
			return Result{Outcome: ledger.OutcomeSkipped, OutputPath: outcome.Path, Message: MessageAlreadyPresent}, nil
		default:
			return Result{Outcome: ledger.OutcomeFailed, Err: outcome.Err}, nil
		}
	})
	return outcome, summary, err
}

func fromReport(report mixer.Report) Result {
	if report.NothingToMix {
		return Result{
			Outcome: ledger.OutcomeSkipped,
			Message: MessageNothingToMix,
			Dropped: len(report.Dropped),
		}
	}
	return Result{
		Outcome:    ledger.OutcomeOK,
		OutputPath: report.MixPath,
		Stems:      len(report.Stems),
		Dropped:    len(report.Dropped),
	}
}
