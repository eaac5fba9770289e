package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sensorgate/pkg/platform/sentinel"
	"sensorgate/pkg/requestcontext"
)

// FSStore stores blob bytes in a local ID-sharded tree. One blob is two
// files: `<shard>/<id>` for content and `<shard>/<id>.meta` for the record
// fields. The meta file is renamed into place last, so a blob only becomes
// readable once its content is fully durable.
type FSStore struct {
	root string
}

type fsMeta struct {
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	StoredAt  time.Time `json:"stored_at"`
}

// NewFSStore creates a filesystem store rooted at root.
func NewFSStore(root string) (*FSStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &FSStore{root: abs}, nil
}

func (s *FSStore) Put(ctx context.Context, content []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	blobID := uuid.NewString()
	meta := fsMeta{
		Filename:  filename,
		SizeBytes: int64(len(content)),
		StoredAt:  requestcontext.Now(ctx),
	}

	contentPath, metaPath, err := s.paths(blobID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(contentPath), 0o755); err != nil {
		return "", fmt.Errorf("create blob shard: %w", err)
	}

	if err := s.writeDurable(contentPath, content); err != nil {
		return "", fmt.Errorf("write blob content: %w", err)
	}

	metaBytes, err := json.Marshal(meta)
	if err != nil {
		_ = os.Remove(contentPath)
		return "", fmt.Errorf("encode blob meta: %w", err)
	}
	if err := s.writeDurable(metaPath, metaBytes); err != nil {
		_ = os.Remove(contentPath)
		return "", fmt.Errorf("write blob meta: %w", err)
	}

	return blobID, nil
}

func (s *FSStore) Get(ctx context.Context, blobID string) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contentPath, metaPath, err := s.paths(blobID)
	if err != nil {
		return nil, sentinel.ErrNotFound
	}

	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read blob meta: %w", err)
	}
	var meta fsMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("decode blob meta: %w", err)
	}

	content, err := os.ReadFile(contentPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read blob content: %w", err)
	}

	return &Blob{
		ID:        blobID,
		Content:   content,
		Filename:  meta.Filename,
		SizeBytes: meta.SizeBytes,
		StoredAt:  meta.StoredAt,
	}, nil
}

// writeDurable writes bytes to a temp file, fsyncs, and renames into place.
func (s *FSStore) writeDurable(dst string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Join(s.root, "tmp"), "put-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// paths shards by the first two characters of the ID to keep directories
// reasonably sized. Rejects IDs that are not UUIDs so a crafted blob ID can
// never escape the root.
func (s *FSStore) paths(blobID string) (contentPath, metaPath string, err error) {
	if _, err := uuid.Parse(blobID); err != nil {
		return "", "", fmt.Errorf("invalid blob id: %w", err)
	}
	shard := filepath.Join(s.root, blobID[:2])
	return filepath.Join(shard, blobID), filepath.Join(shard, blobID+".meta"), nil
}
