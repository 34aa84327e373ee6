// Package testutil provides fake collaborators and time helpers for tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/trigger"
)

// FakeCatalog is an in-memory AssetCatalog.
type FakeCatalog struct {
	Versions map[string][]engine.AssetVersion
	Err      error // returned by every lookup when set
}

// ListVersions implements engine.AssetCatalog.
func (c *FakeCatalog) ListVersions(_ context.Context, assetName string) ([]engine.AssetVersion, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Versions[assetName], nil
}

// Add appends a version for an asset.
func (c *FakeCatalog) Add(assetName, version string, createdAt time.Time) {
	if c.Versions == nil {
		c.Versions = make(map[string][]engine.AssetVersion)
	}
	c.Versions[assetName] = append(c.Versions[assetName], engine.AssetVersion{
		Version:   version,
		CreatedAt: createdAt,
	})
}

// FakeFS is an in-memory filesystem for file_exists conditions.
type FakeFS struct {
	Files map[string]bool
	Err   error // returned by every check when set
}

// Exists implements engine.FS.
func (f *FakeFS) Exists(path string) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	return f.Files[path], nil
}

// Touch marks a path as existing.
func (f *FakeFS) Touch(path string) {
	if f.Files == nil {
		f.Files = make(map[string]bool)
	}
	f.Files[path] = true
}

// Submission is one payload a FakeSubmitter accepted.
type Submission struct {
	TriggerName string
	Payload     trigger.Payload
	JobID       string
}

// FakeSubmitter records submissions and hands out sequential job IDs.
type FakeSubmitter struct {
	Err       error // returned by every submit when set
	Submitted []Submission
}

// Submit implements engine.Submitter.
func (s *FakeSubmitter) Submit(_ context.Context, triggerName string, payload trigger.Payload) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	jobID := fmt.Sprintf("job-%d", len(s.Submitted)+1)
	s.Submitted = append(s.Submitted, Submission{
		TriggerName: triggerName,
		Payload:     payload,
		JobID:       jobID,
	})
	return jobID, nil
}

// MustTime parses an RFC 3339 timestamp or panics. Test fixtures only.
func MustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
