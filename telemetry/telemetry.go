// Package telemetry wraps the otelslog-backed structured logger the
// teacher wires up (services/gormbe/db.go, services/gaebe/client.go: a
// package-level otelslog.NewLogger(name) plus otel.Tracer/otel.Meter),
// adapted here to emit per-query pathfinder telemetry: mode, nodes closed,
// cache hit/miss, and the "limit reached" vs "no path" distinction spec §7
// calls out as needing a distinct code.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

const instrumentationName = "github.com/turnforge/ttdpf"

var (
	Tracer = otel.Tracer(instrumentationName)
	Meter  = otel.Meter(instrumentationName)
	Logger = otelslog.NewLogger(instrumentationName)
)

// Outcome is the distinct internal result code spec §7 requires beyond a
// plain found/not-found boolean.
type Outcome uint8

const (
	OutcomeFound Outcome = iota
	OutcomeNoPath
	OutcomeLimitReached
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNoPath:
		return "no_path"
	case OutcomeLimitReached:
		return "limit_reached"
	default:
		return "unknown"
	}
}

// QueryResult is what one search run reports for logging/metrics.
type QueryResult struct {
	Mode        string
	Outcome     Outcome
	NodesClosed int
	CacheHits   int
	CacheMisses int
	Cost        int64
}

// LogQuery emits one structured log line per finished query, at a level
// that reflects severity the way the teacher's code distinguishes
// log.Println from error paths: a limit-reached query is worth a warning,
// a found path is routine info.
func LogQuery(ctx context.Context, r QueryResult) {
	attrs := []any{
		slog.String("mode", r.Mode),
		slog.String("outcome", r.Outcome.String()),
		slog.Int("nodes_closed", r.NodesClosed),
		slog.Int("cache_hits", r.CacheHits),
		slog.Int("cache_misses", r.CacheMisses),
		slog.Int64("cost", r.Cost),
	}
	switch r.Outcome {
	case OutcomeLimitReached:
		Logger.WarnContext(ctx, "pathfinder query hit its node limit", attrs...)
	case OutcomeNoPath:
		Logger.InfoContext(ctx, "pathfinder query found no path", attrs...)
	default:
		Logger.InfoContext(ctx, "pathfinder query completed", attrs...)
	}
}
