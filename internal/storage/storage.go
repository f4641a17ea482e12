package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"
)

// Package storage keeps uploaded XD containers in an S3-compatible object store.
// Containers are read back whole: zip needs random access, so callers buffer
// objects with ReadAll before opening them.

const (
	ContainerPrefix = "containers"
	// ContainerContentType is used when an upload carries no content type.
	ContainerContentType = "application/vnd.adobe.xd"
)

var (
	ErrNotFound       = errors.New("object not found")
	ErrObjectTooLarge = errors.New("object exceeds size limit")
)

// ContainerKey returns the object key for a stored container file name.
func ContainerKey(name string) string {
	return path.Join(ContainerPrefix, name)
}

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object store.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	// A missing key yields an error matching ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ReadAll downloads key into memory. maxBytes <= 0 means no limit.
func ReadAll(ctx context.Context, s Storage, key string, maxBytes int64) ([]byte, error) {
	rc, info, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if maxBytes > 0 && info.Size > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, key, info.Size)
	}

	var r io.Reader = rc
	if maxBytes > 0 {
		r = io.LimitReader(rc, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s", ErrObjectTooLarge, key)
	}
	return data, nil
}
