package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	PlaylistPageRequests atomic.Int64
	VideoDetailRequests  atomic.Int64
	CommentRequests      atomic.Int64
	UpstreamErrors       atomic.Int64
	Aggregations         atomic.Int64
	AggregationFailures  atomic.Int64
	PartialItems         atomic.Int64
}

// SlowOperationThreshold is the elapsed time after which TrackOperation logs a warning.
var SlowOperationThreshold = 30 * time.Second

var metricKeys = []string{
	"playlist_page_requests",
	"video_detail_requests",
	"comment_requests",
	"upstream_errors",
	"aggregations",
	"aggregation_failures",
	"partial_items",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"playlist_page_requests": metrics.PlaylistPageRequests.Load(),
		"video_detail_requests":  metrics.VideoDetailRequests.Load(),
		"comment_requests":       metrics.CommentRequests.Load(),
		"upstream_errors":        metrics.UpstreamErrors.Load(),
		"aggregations":           metrics.Aggregations.Load(),
		"aggregation_failures":   metrics.AggregationFailures.Load(),
		"partial_items":          metrics.PartialItems.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ sub-package.
func IncrPlaylistPageRequests() { metrics.PlaylistPageRequests.Add(1) }
func IncrVideoDetailRequests()  { metrics.VideoDetailRequests.Add(1) }
func IncrCommentRequests()      { metrics.CommentRequests.Add(1) }
func IncrUpstreamErrors()       { metrics.UpstreamErrors.Add(1) }

// Incrementors for playlist/ sub-package.
func IncrAggregations()        { metrics.Aggregations.Add(1) }
func IncrAggregationFailures() { metrics.AggregationFailures.Add(1) }
func AddPartialItems(n int)    { metrics.PartialItems.Add(int64(n)) }

// TrackOperation logs a warning if an operation takes longer than SlowOperationThreshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > SlowOperationThreshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
