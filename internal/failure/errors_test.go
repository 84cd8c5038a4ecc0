package failure_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"mixprep/internal/failure"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := failure.Wrap(failure.ErrSchema, "activation", "read", "track.lab", cause)
	if !errors.Is(err, failure.ErrSchema) {
		t.Fatalf("expected schema marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "activation: read: track.lab") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKindClassifiesMarkers(t *testing.T) {
	cases := map[error]string{
		nil:                                            "",
		failure.MissingFile("x", "y", "z"):             "missing_file",
		fmt.Errorf("outer: %w", failure.ErrNotFound):   "not_found",
		failure.Wrap(failure.ErrFetch, "", "", "", nil): "fetch",
		errors.New("plain"):                             "error",
	}
	for err, want := range cases {
		if got := failure.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}
