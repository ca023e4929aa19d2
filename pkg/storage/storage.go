// Package storage persists pipeline run artifacts: converted sheets,
// deleted-row audit logs, workbooks, and forecast charts. Artifacts are
// grouped per run and carry JSON metadata sidecars.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ArtifactInfo describes one stored run artifact.
type ArtifactInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the persistence surface the pipeline writes artifacts through.
type Store interface {
	// Save stores an artifact under a run and returns its metadata.
	Save(ctx context.Context, runID uuid.UUID, name, contentType string, r io.Reader) (*ArtifactInfo, error)

	// Open returns a reader for a stored artifact.
	Open(ctx context.Context, runID, artifactID uuid.UUID) (io.ReadCloser, error)

	// Info returns an artifact's metadata without reading it.
	Info(ctx context.Context, runID, artifactID uuid.UUID) (*ArtifactInfo, error)

	// List returns every artifact stored under a run.
	List(ctx context.Context, runID uuid.UUID) ([]*ArtifactInfo, error)
}
