package engine

import (
	"context"
	"os"
	"time"

	"github.com/pipelift/pipelift/internal/trigger"
)

// AssetVersion is one revision of an external data asset.
type AssetVersion struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// AssetCatalog looks up the known versions of a named data asset.
//
// Implementations may return versions in any order; the evaluator sorts by
// creation time itself. Errors are converted into a no-fire decision for the
// affected trigger, never propagated out of an evaluation pass.
type AssetCatalog interface {
	ListVersions(ctx context.Context, assetName string) ([]AssetVersion, error)
}

// FS answers existence checks for file_exists conditions.
type FS interface {
	Exists(path string) (bool, error)
}

// Submitter forwards a fired trigger's pipeline payload to the external job
// runner and returns the resulting job ID. Invoked only when the caller opted
// into execution; errors are caught and reported, not propagated, so firing
// bookkeeping stays consistent regardless of downstream success.
type Submitter interface {
	Submit(ctx context.Context, triggerName string, payload trigger.Payload) (string, error)
}

// OSFS implements FS against the local filesystem.
type OSFS struct{}

// Exists reports whether path exists. Stat errors other than "not exist" are
// returned so the evaluator can surface them as a reason.
func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
