package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mixprep/internal/failure"
	"mixprep/internal/fetch"
)

func newFetcher(t *testing.T) *fetch.Fetcher {
	t.Helper()
	base := t.TempDir()
	return fetch.New(filepath.Join(base, "unzipped"), filepath.Join(base, "logs", "errors.txt"), 5*time.Second, nil)
}

func TestTargetName(t *testing.T) {
	cases := map[string]string{
		"https://example.com/mt/Song.zip":          "Song.zip",
		"https://example.com/mt/Song":              "Song.zip",
		"https://example.com/mt/Song.tar?dl=1":     "Song.tar.zip",
		"https://example.com/a/b/Multitrack.zip#x": "Multitrack.zip",
	}
	for in, want := range cases {
		got, err := fetch.TargetName(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: got %q, want %q", in, got, want)
		}
	}
	if _, err := fetch.TargetName("https://example.com/"); err == nil {
		t.Fatal("expected error for url without file name")
	}
}

func TestDownloadWritesArchive(t *testing.T) {
	payload := bytes.Repeat([]byte("PK"), 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := newFetcher(t)
	out := f.Download(context.Background(), srv.URL+"/files/Artist_Song")
	if out.Status != fetch.StatusDownloaded || out.Err != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if filepath.Base(out.Path) != "Artist_Song.zip" || out.Bytes != int64(len(payload)) {
		t.Fatalf("unexpected outcome %+v", out)
	}
	data, err := os.ReadFile(out.Path)
	if err != nil || !bytes.Equal(data, payload) {
		t.Fatalf("archive content mismatch: %v", err)
	}
}

func TestDownloadSkipsExistingWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("new content"))
	}))
	defer srv.Close()

	f := newFetcher(t)
	existing := filepath.Join(f.Dir, "Song.zip")
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	original := []byte("original bytes \x00\x01")
	if err := os.WriteFile(existing, original, 0o600); err != nil {
		t.Fatal(err)
	}
	before, _ := os.Stat(existing)

	out := f.Download(context.Background(), srv.URL+"/Song.zip")
	if out.Status != fetch.StatusSkipped {
		t.Fatalf("expected skip, got %+v", out)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request, got %d", hits.Load())
	}
	data, _ := os.ReadFile(existing)
	after, _ := os.Stat(existing)
	if !bytes.Equal(data, original) || !after.ModTime().Equal(before.ModTime()) {
		t.Fatal("existing archive changed")
	}
}

func TestDownloadFailureIsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newFetcher(t)
	url := srv.URL + "/Missing.zip"
	out := f.Download(context.Background(), url)
	if out.Status != fetch.StatusFailed || !errors.Is(out.Err, failure.ErrFetch) {
		t.Fatalf("expected fetch failure, got %+v", out)
	}
	if _, err := os.Stat(out.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("partial archive left behind: %v", err)
	}
	urls, err := fetch.ReadErrorLog(f.ErrorLog)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(urls, []string{url}) {
		t.Fatalf("error log = %v", urls)
	}
}

func TestDownloadUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/Song.zip"
	srv.Close()

	f := newFetcher(t)
	if out := f.Download(context.Background(), url); out.Status != fetch.StatusFailed {
		t.Fatalf("expected failure, got %+v", out)
	}
}

func TestAppendErrorLogConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.txt")
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch.AppendErrorLog(path, fmt.Sprintf("https://example.com/%02d", i)); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
	}
	wg.Wait()

	urls, err := fetch.ReadErrorLog(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(urls))
	}
	slices.Sort(urls)
	if urls[0] != "https://example.com/00" || urls[19] != "https://example.com/19" {
		t.Fatalf("unexpected lines %v", urls)
	}
}
