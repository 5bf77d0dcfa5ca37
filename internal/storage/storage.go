package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/harari-inventory/apiserver/config"
)

// XLSXContentType is the media type of uploaded snapshots.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const snapshotLayout = "20060102T150405Z"

// Object describes a stored object.
type Object struct {
	Key     string
	Size    int64
	Updated time.Time
}

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage keeps inventory snapshots in an ObjectStorage backend.
type Storage struct {
	backend ObjectStorage
	prefix  string
}

// NewStorage constructs a Storage writing snapshots under prefix.
func NewStorage(backend ObjectStorage, prefix string) *Storage {
	return &Storage{backend: backend, prefix: prefix}
}

// Open connects the backend selected by cfg.Export.Backend. It returns
// nil, nil when uploads are disabled.
func Open(ctx context.Context, cfg config.Config) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.Export.Backend {
	case "", config.BackendNone:
		return nil, nil
	case config.BackendGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	case config.BackendMinio:
		backend, err = NewMinioClient(cfg.Minio)
	default:
		return nil, errors.New("unknown export backend: " + cfg.Export.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Export.Backend, err)
	}
	return NewStorage(backend, cfg.Export.Prefix), nil
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Close releases the backend client when it holds one.
func (s *Storage) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// SnapshotKey names the snapshot taken at the given instant. Keys sort
// chronologically.
func (s *Storage) SnapshotKey(at time.Time) string {
	return s.prefix + "inventory-" + at.UTC().Format(snapshotLayout) + ".xlsx"
}

// SaveSnapshot uploads an xlsx workbook and returns its key.
func (s *Storage) SaveSnapshot(ctx context.Context, at time.Time, data []byte) (string, error) {
	key := s.SnapshotKey(at)
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), XLSXContentType); err != nil {
		return "", err
	}
	return key, nil
}

// Snapshots lists stored snapshots, newest first.
func (s *Storage) Snapshots(ctx context.Context) ([]Object, error) {
	objects, err := s.backend.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	snapshots := objects[:0]
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, ".xlsx") {
			snapshots = append(snapshots, obj)
		}
	}
	slices.SortFunc(snapshots, func(a, b Object) int {
		return strings.Compare(b.Key, a.Key)
	})
	return snapshots, nil
}

// Prune deletes all but the newest keep snapshots and returns the deleted keys.
func (s *Storage) Prune(ctx context.Context, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshots) <= keep {
		return nil, nil
	}

	var deleted []string
	for _, obj := range snapshots[keep:] {
		if err := s.backend.Delete(ctx, obj.Key); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", obj.Key, err)
		}
		deleted = append(deleted, obj.Key)
	}
	return deleted, nil
}

func baseName(key string) string {
	return path.Base(key)
}
