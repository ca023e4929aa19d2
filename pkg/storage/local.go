package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Local implements Store on the local filesystem: one directory per run,
// with metadata sidecars under a ".meta" subdirectory.
type Local struct {
	basePath string
}

// NewLocal creates a filesystem-backed store rooted at basePath.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Local{basePath: basePath}, nil
}

// Save stores an artifact under a run and returns its metadata.
func (s *Local) Save(ctx context.Context, runID uuid.UUID, name, contentType string, r io.Reader) (*ArtifactInfo, error) {
	artifactID := uuid.New()

	runDir := filepath.Join(s.basePath, runID.String())
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	// UUID prefix keeps repeated artifact names from colliding.
	storedName := fmt.Sprintf("%s_%s", artifactID.String()[:8], sanitizeName(name))
	path := filepath.Join(runDir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	info := &ArtifactInfo{
		ID:          artifactID,
		Name:        name,
		Size:        size,
		ContentType: contentType,
		Path:        storedName,
		CreatedAt:   time.Now(),
	}
	if err := s.saveMetadata(runID, artifactID, info); err != nil {
		os.Remove(path)
		return nil, err
	}
	return info, nil
}

// Open returns a reader for a stored artifact.
func (s *Local) Open(ctx context.Context, runID, artifactID uuid.UUID) (io.ReadCloser, error) {
	info, err := s.Info(ctx, runID, artifactID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.basePath, runID.String(), info.Path))
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

// Info returns an artifact's metadata without reading it.
func (s *Local) Info(ctx context.Context, runID, artifactID uuid.UUID) (*ArtifactInfo, error) {
	metaPath := filepath.Join(s.basePath, runID.String(), ".meta", artifactID.String()+".json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", artifactID)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var info ArtifactInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &info, nil
}

// List returns every artifact stored under a run.
func (s *Local) List(ctx context.Context, runID uuid.UUID) ([]*ArtifactInfo, error) {
	metaDir := filepath.Join(s.basePath, runID.String(), ".meta")
	if _, err := os.Stat(metaDir); os.IsNotExist(err) {
		return []*ArtifactInfo{}, nil
	}

	entries, err := os.ReadDir(metaDir)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}

	artifacts := make([]*ArtifactInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		info, err := s.Info(ctx, runID, id)
		if err != nil {
			continue
		}
		artifacts = append(artifacts, info)
	}
	return artifacts, nil
}

func (s *Local) saveMetadata(runID, artifactID uuid.UUID, info *ArtifactInfo) error {
	metaDir := filepath.Join(s.basePath, runID.String(), ".meta")
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	metaPath := filepath.Join(metaDir, artifactID.String()+".json")
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// sanitizeName strips path separators and other unsafe characters from
// artifact names.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
