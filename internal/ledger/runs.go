package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when no run matches an identifier.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when an identifier prefix matches several runs.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

const runColumns = `r.id, r.kind, r.status, r.started_at, r.finished_at,
    COUNT(t.id),
    COALESCE(SUM(CASE WHEN t.outcome = 'ok' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN t.outcome = 'skipped' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN t.outcome = 'failed' THEN 1 ELSE 0 END), 0)`

// BeginRun inserts a new running run of the given kind.
func (s *Store) BeginRun(ctx context.Context, kind Kind) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.exec(ctx,
		`INSERT INTO runs (id, kind, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, string(run.Kind), string(run.Status), run.StartedAt.Format(timeLayout),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Record appends a track result to its run.
func (s *Store) Record(ctx context.Context, result TrackResult) error {
	if strings.TrimSpace(result.RunID) == "" {
		return errors.New("track result has no run id")
	}
	recorded := result.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now().UTC()
	}
	if err := s.exec(ctx,
		`INSERT INTO track_results (
            run_id, track, outcome, error_kind, message, output_path,
            stems, dropped, duration_ms, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Track,
		string(result.Outcome),
		nullableString(result.ErrorKind),
		nullableString(result.Message),
		nullableString(result.OutputPath),
		result.Stems,
		result.Dropped,
		result.Duration.Milliseconds(),
		recorded.Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert track result: %w", err)
	}
	return nil
}

// FinishRun marks a run as done with the given status and returns its totals.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus) (*Run, error) {
	if err := s.exec(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(timeLayout), runID,
	); err != nil {
		return nil, fmt.Errorf("finish run: %w", err)
	}
	return s.GetRun(ctx, runID)
}

// GetRun returns the run whose id equals or starts with idOrPrefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	ctx = ensureContext(ctx)
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+`
        FROM runs r LEFT JOIN track_results t ON t.run_id = r.id
        WHERE r.id = ? OR r.id LIKE ? ESCAPE '\'
        GROUP BY r.id
        LIMIT 2`,
		idOrPrefix, escapeLike(idOrPrefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == idOrPrefix {
			return run, nil
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+`
        FROM runs r LEFT JOIN track_results t ON t.run_id = r.id
        GROUP BY r.id
        ORDER BY r.started_at DESC, r.rowid DESC
        LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Results returns a run's track results in the order they were recorded.
func (s *Store) Results(ctx context.Context, runID string) ([]TrackResult, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, track, outcome, error_kind, message, output_path,
            stems, dropped, duration_ms, recorded_at
        FROM track_results WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []TrackResult
	for rows.Next() {
		var (
			res        TrackResult
			outcome    string
			errorKind  sql.NullString
			message    sql.NullString
			outputPath sql.NullString
			durationMS int64
			recorded   string
		)
		if err := rows.Scan(&res.RunID, &res.Track, &outcome, &errorKind, &message, &outputPath,
			&res.Stems, &res.Dropped, &durationMS, &recorded); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.Outcome = Outcome(outcome)
		res.ErrorKind = errorKind.String
		res.Message = message.String
		res.OutputPath = outputPath.String
		res.Duration = time.Duration(durationMS) * time.Millisecond
		res.RecordedAt = parseTime(recorded)
		results = append(results, res)
	}
	return results, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		kind       string
		status     string
		startedRaw string
		finished   sql.NullString
	)
	if err := scanner.Scan(&run.ID, &kind, &status, &startedRaw, &finished,
		&run.Tracks, &run.Succeeded, &run.Skipped, &run.Failed); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = Kind(kind)
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(startedRaw)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return &run, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
