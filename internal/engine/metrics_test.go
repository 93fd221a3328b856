package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFormatMetrics(t *testing.T) {
	before := GetMetrics()["comment_requests"]
	IncrCommentRequests()
	IncrCommentRequests()

	if got := GetMetrics()["comment_requests"]; got != before+2 {
		t.Errorf("comment_requests = %d, want %d", got, before+2)
	}

	out := FormatMetrics()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(metricKeys) {
		t.Fatalf("FormatMetrics() returned %d lines, want %d", len(lines), len(metricKeys))
	}
	for i, k := range metricKeys {
		if !strings.HasPrefix(lines[i], k+" ") {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], k+" ")
		}
	}
}

func TestTrackOperationPassesError(t *testing.T) {
	want := errors.New("boom")
	err := TrackOperation(context.Background(), "test", func(ctx context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("TrackOperation() error = %v, want %v", err, want)
	}
}
