package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"mixprep/internal/failure"
	"mixprep/internal/ledger"
	"mixprep/internal/logging"
)

// Result is what a Handler reports for one track.
type Result struct {
	Outcome    ledger.Outcome
	OutputPath string
	Stems      int
	Dropped    int
	Message    string
	Err        error
}

// Handler processes a single track. Returning an error marks the track as
// failed; the run continues with the next track.
type Handler func(ctx context.Context, task Task) (Result, error)

// Failure pairs a track with the error that stopped it.
type Failure struct {
	Track string
	Err   error
}

// Summary aggregates a finished run.
type Summary struct {
	RunID     string
	Kind      ledger.Kind
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Failures  []Failure
	Elapsed   time.Duration
}

// RunnerOption configures optional Runner behavior.
type RunnerOption func(*Runner)

// WithLedger records every run and track result in store.
func WithLedger(store *ledger.Store) RunnerOption {
	return func(r *Runner) { r.ledger = store }
}

// WithProgress renders a progress bar to w.
func WithProgress(w io.Writer) RunnerOption {
	return func(r *Runner) { r.progress = w }
}

// Runner fans tracks out to a bounded pool of workers. Tracks share no state,
// so any worker count is safe.
type Runner struct {
	workers  int
	logger   *slog.Logger
	ledger   *ledger.Store
	progress io.Writer
}

// NewRunner constructs a runner with the given worker count.
func NewRunner(workers int, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{workers: workers, logger: logging.NewComponentLogger(logger, "batch")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes tasks with handle. Per-track errors are logged, recorded and
// counted but never abort the run. The returned error is non-nil only when
// the ledger cannot be written or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, kind ledger.Kind, tasks []Task, handle Handler) (Summary, error) {
	start := time.Now()
	summary := Summary{Kind: kind, Total: len(tasks)}

	if r.ledger != nil {
		run, err := r.ledger.BeginRun(ctx, kind)
		if err != nil {
			return summary, err
		}
		summary.RunID = run.ID
	}
	logger := r.logger
	if summary.RunID != "" {
		logger = logger.With(slog.String(logging.FieldRunID, summary.RunID))
	}
	logger.Info("run started", slog.String("kind", string(kind)), slog.Int("tracks", len(tasks)), slog.Int("workers", r.workers))

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if r.progress != nil && len(tasks) > 0 {
		progress = mpb.NewWithContext(ctx, mpb.WithOutput(r.progress), mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(tasks)),
			mpb.PrependDecorators(
				decor.Name(string(kind)+": "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
				decor.EwmaETA(decor.ET_STYLE_GO, 30),
			),
		)
	}

	queue := make(chan Task)
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		ledgerErr error
	)
	for range r.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				began := time.Now()
				res := r.process(ctx, logger, task, handle)
				elapsed := time.Since(began)

				mu.Lock()
				switch res.Outcome {
				case ledger.OutcomeOK:
					summary.Succeeded++
				case ledger.OutcomeSkipped:
					summary.Skipped++
				default:
					summary.Failed++
					summary.Failures = append(summary.Failures, Failure{Track: task.Name, Err: res.Err})
				}
				mu.Unlock()

				if r.ledger != nil {
					if err := r.ledger.Record(context.WithoutCancel(ctx), toLedger(summary.RunID, task, res, elapsed)); err != nil {
						mu.Lock()
						ledgerErr = errors.Join(ledgerErr, err)
						mu.Unlock()
					}
				}
				if bar != nil {
					bar.EwmaIncrement(elapsed)
				}
			}
		}()
	}

dispatch:
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		select {
		case queue <- task:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(queue)
	wg.Wait()
	if progress != nil {
		if ctx.Err() != nil {
			bar.Abort(false)
		}
		progress.Wait()
	}

	summary.Elapsed = time.Since(start)
	status := ledger.RunCompleted
	if ctx.Err() != nil {
		status = ledger.RunCancelled
	}
	if r.ledger != nil {
		if _, err := r.ledger.FinishRun(context.WithoutCancel(ctx), summary.RunID, status); err != nil {
			ledgerErr = errors.Join(ledgerErr, err)
		}
	}
	logger.Info("run finished",
		slog.String("kind", string(kind)),
		slog.String("status", string(status)),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed),
	)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, ledgerErr
}

func (r *Runner) process(ctx context.Context, logger *slog.Logger, task Task, handle Handler) (res Result) {
	trackLogger := logger.With(logging.Track(task.Name))
	defer func() {
		if rec := recover(); rec != nil {
			err := failure.Wrap(nil, "batch", "process", "panic while processing track", panicError{rec})
			trackLogger.Error("track failed", logging.Error(err))
			res = Result{Outcome: ledger.OutcomeFailed, Err: err}
		}
	}()

	res, err := handle(ctx, task)
	if err != nil {
		trackLogger.Error("track failed", logging.Error(err), slog.String("error_kind", failure.Kind(err)))
		res.Outcome = ledger.OutcomeFailed
		res.Err = err
		return res
	}
	if res.Outcome == "" {
		res.Outcome = ledger.OutcomeOK
	}
	if res.Outcome == ledger.OutcomeSkipped {
		trackLogger.Info("track skipped", slog.String("reason", res.Message))
	}
	return res
}

func toLedger(runID string, task Task, res Result, elapsed time.Duration) ledger.TrackResult {
	out := ledger.TrackResult{
		RunID:      runID,
		Track:      task.Name,
		Outcome:    res.Outcome,
		Message:    res.Message,
		OutputPath: res.OutputPath,
		Stems:      res.Stems,
		Dropped:    res.Dropped,
		Duration:   elapsed,
	}
	if res.Err != nil {
		out.ErrorKind = failure.Kind(res.Err)
		out.Message = res.Err.Error()
	}
	return out
}

type panicError struct{ value any }

func (p panicError) Error() string { return fmt.Sprint(p.value) }
