package telemetry

import (
	"os"
)

// DefaultArtifactsDir is where events.jsonl is written when AGT_ARTIFACTS_DIR is unset.
const DefaultArtifactsDir = ".agent"

// ObserveEnabled reports whether JSONL emission is enabled (AGT_OBSERVE_JSON=1).
// Read on every call so tests and long-running shells can toggle it.
func ObserveEnabled() bool {
	return os.Getenv("AGT_OBSERVE_JSON") == "1"
}

// ArtifactsDir returns the directory holding telemetry artifacts.
func ArtifactsDir() string {
	if v := os.Getenv("AGT_ARTIFACTS_DIR"); v != "" {
		return v
	}
	return DefaultArtifactsDir
}
