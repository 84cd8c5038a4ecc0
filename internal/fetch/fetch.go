package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"mixprep/internal/failure"
	"mixprep/internal/fileutil"
	"mixprep/internal/logging"
)

const (
	defaultTimeout = 30 * time.Second
	archiveSuffix  = ".zip"
)

// Status classifies the outcome of a download.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Outcome describes one download attempt. Err is set only for StatusFailed
// and is informational; Download never returns an error to its caller.
type Outcome struct {
	URL    string
	Path   string
	Status Status
	Bytes  int64
	Err    error
}

// Fetcher downloads dataset archives into Dir and records failed URLs in
// ErrorLog.
type Fetcher struct {
	Dir      string
	ErrorLog string
	Client   *http.Client
	Logger   *slog.Logger
	// Progress receives a byte progress bar when non-nil.
	Progress io.Writer
}

// New builds a Fetcher whose HTTP client gives up after timeout.
func New(dir, errorLog string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{
		Dir:      dir,
		ErrorLog: errorLog,
		Client:   &http.Client{Timeout: timeout},
		Logger:   logging.NewComponentLogger(logger, "fetch"),
	}
}

// TargetName derives the archive filename for rawURL: the last path segment,
// with .zip appended unless already present.
func TargetName(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	base := path.Base(parsed.Path)
	if base == "" || base == "." || base == "/" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}
	if !strings.HasSuffix(base, archiveSuffix) {
		base += archiveSuffix
	}
	return base, nil
}

// Download fetches rawURL into the target directory. An existing target is
// left untouched and no request is made. Failures are logged and appended to
// the error log; they are reported through the Outcome only.
func (f *Fetcher) Download(ctx context.Context, rawURL string) Outcome {
	outcome := Outcome{URL: rawURL}

	name, err := TargetName(rawURL)
	if err != nil {
		return f.fail(outcome, err)
	}
	outcome.Path = filepath.Join(f.Dir, name)

	if fileutil.Exists(outcome.Path) {
		f.Logger.Info("skipping download, already exists", slog.String("path", outcome.Path))
		outcome.Status = StatusSkipped
		return outcome
	}

	f.Logger.Info("downloading", slog.String("url", rawURL), slog.String("path", outcome.Path))
	written, err := f.fetch(ctx, rawURL, outcome.Path, name)
	if err != nil {
		return f.fail(outcome, err)
	}
	outcome.Status = StatusDownloaded
	outcome.Bytes = written
	f.Logger.Info("downloaded", slog.String("path", outcome.Path), slog.Int64("bytes", written))
	return outcome
}

func (f *Fetcher) fetch(ctx context.Context, rawURL, target, name string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if f.Progress != nil {
		progress = mpb.NewWithContext(ctx, mpb.WithOutput(f.Progress), mpb.WithWidth(64))
		bar = progress.AddBar(max(resp.ContentLength, 0),
			mpb.PrependDecorators(
				decor.Name(name+" "),
				decor.CountersKibiByte("% .1f / % .1f"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
				decor.EwmaETA(decor.ET_STYLE_GO, 60),
			),
		)
		proxy := bar.ProxyReader(resp.Body)
		defer proxy.Close()
		body = proxy
	}

	var written int64
	err = fileutil.WriteAtomicFunc(target, 0o644, func(w io.Writer) error {
		n, err := io.Copy(w, body)
		written = n
		return err
	})
	if bar != nil {
		if err != nil {
			bar.Abort(false)
		} else {
			bar.SetTotal(-1, true)
		}
		progress.Wait()
	}
	if err != nil {
		return written, fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	return written, nil
}

func (f *Fetcher) fail(outcome Outcome, err error) Outcome {
	outcome.Status = StatusFailed
	outcome.Err = failure.Wrap(failure.ErrFetch, "fetch", "download", outcome.URL, err)
	f.Logger.Error("error downloading",
		slog.String("url", outcome.URL),
		logging.Error(err),
	)
	if logErr := AppendErrorLog(f.ErrorLog, outcome.URL); logErr != nil {
		f.Logger.Warn("could not record failed url",
			slog.String("error_log", f.ErrorLog),
			logging.Error(logErr),
		)
	}
	return outcome
}
