package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pipelift/pipelift/internal/engine"
)

// AddAssetVersion records a version of a data asset in the local catalog.
// Re-adding the same (asset, version) pair updates its creation time.
func (s *Store) AddAssetVersion(ctx context.Context, asset, version string, createdAt time.Time) error {
	return s.execContext(ctx, fmt.Sprintf("add asset version %s@%s", asset, version), `
		INSERT INTO asset_versions (asset, version, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(asset, version) DO UPDATE SET created_at = excluded.created_at
	`, asset, version, formatTime(createdAt))
}

// ListVersions returns the known versions of an asset. Implements
// engine.AssetCatalog; no ordering is promised, the evaluator sorts itself.
func (s *Store) ListVersions(ctx context.Context, assetName string) ([]engine.AssetVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version, created_at FROM asset_versions WHERE asset = ?
	`, assetName)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", assetName, err)
	}
	defer rows.Close()

	var versions []engine.AssetVersion
	for rows.Next() {
		var (
			v         engine.AssetVersion
			createdAt string
		)
		if err := rows.Scan(&v.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("scan asset version: %w", err)
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("asset %s@%s: created_at: %w", assetName, v.Version, err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset versions: %w", err)
	}
	return versions, nil
}
