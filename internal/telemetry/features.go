package telemetry

import (
	"context"

	"github.com/petasbytes/wikiseek/internal/metrics"
)

// EmitInvokeFeatures records text features of a finished Invoke.
func EmitInvokeFeatures(ctx context.Context, query, answer string, roundTrips int) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	q := metrics.CountFeatures(query)
	a := metrics.CountAnswerFeatures(answer)
	Emit("invoke_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "2",
		"round_trips":      roundTrips,
		"query": map[string]any{
			"bytes": q.Bytes,
			"runes": q.Runes,
			"words": q.Words,
			"lines": q.Lines,
		},
		"answer": map[string]any{
			"bytes":    a.Bytes,
			"runes":    a.Runes,
			"words":    a.Words,
			"lines":    a.Lines,
			"links":    a.Links,
			"headings": a.Headings,
		},
	})
}
