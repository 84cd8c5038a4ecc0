package textutil

import (
	"strings"
	"testing"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Electric Bass ", "electric bass"},
		{"", ""},
		{"   ", ""},
		{"FX/Processed Sound", "fx/processed sound"},
		{"ÉRHU", "érhu"},
	}
	for _, tt := range tests {
		if got := NormalizeLabel(tt.in); got != tt.want {
			t.Fatalf("NormalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLabelsDedupes(t *testing.T) {
	got := NormalizeLabels([]string{"Piano", " piano", "", "Tuba", ""})
	if strings.Join(got, ",") != "piano,,tuba" {
		t.Fatalf("unexpected labels %q", got)
	}
}
