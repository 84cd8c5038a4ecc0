package ledger

import "time"

// Kind names the batch operation a run performed.
type Kind string

const (
	KindMix               Kind = "mix"
	KindMixFiltered       Kind = "mix-filtered"
	KindFilterActivations Kind = "filter-activations"
	KindDownload          Kind = "download"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// Outcome is the result of processing one track within a run.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Run is one invocation of a batch operation with aggregate counts.
type Run struct {
	ID         string
	Kind       Kind
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Tracks     int
	Succeeded  int
	Skipped    int
	Failed     int
}

// TrackResult records what happened to a single track.
type TrackResult struct {
	RunID      string
	Track      string
	Outcome    Outcome
	ErrorKind  string
	Message    string
	OutputPath string
	Stems      int
	Dropped    int
	Duration   time.Duration
	RecordedAt time.Time
}
