package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"xdapi/internal/archive"
	"xdapi/internal/metrics"
	"xdapi/internal/model"
	"xdapi/internal/repository"
	"xdapi/internal/storage"
	"xdapi/internal/tree"
	"xdapi/internal/xd"
)

var (
	ErrIDRequired            = errors.New("id is required")
	ErrNotFound              = errors.New("document not found")
	ErrReaderNil             = errors.New("reader is nil")
	ErrTooLarge              = errors.New("upload exceeds size limit")
	ErrInvalidDocument       = errors.New("not a valid xd container")
	ErrResourceNotReferenced = errors.New("resource uid is blank")
	ErrResourceNotFound      = errors.New("resource not found in container")
)

const defaultExt = ".xd"

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// ArtboardView is one artboard of a stored container with its flattened node tree.
type ArtboardView struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Path  string       `json:"path"`
	Nodes []tree.Visit `json:"nodes"`
}

// DocumentService defines the use cases for stored XD containers.
type DocumentService interface {
	// Upload validates the container by loading it, stores it in object storage and saves its metadata.
	// The object is removed again if the metadata cannot be saved.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// List returns documents using limit/offset and a total count. A non-empty
	// manifestName keeps only containers whose manifest has that name.
	List(ctx context.Context, limit, offset int, manifestName string) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Delete removes a document by ID from both storage and repository.
	Delete(ctx context.Context, id string) error

	// Artboards loads the stored container and returns every artboard with its nodes in pre-order.
	Artboards(ctx context.Context, id string) ([]ArtboardView, error)

	// Resource returns the bytes stored at resources/{uid} in the container.
	Resource(ctx context.Context, id, uid string) ([]byte, error)

	// DownloadURL returns a presigned URL for the raw container.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// Option configures the document service.
type Option func(*documentService)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *documentService) { s.log = l }
}

// WithMetrics records container loads in m.
func WithMetrics(m *metrics.Loader) Option {
	return func(s *documentService) { s.metrics = m }
}

// WithMaxBytes caps upload and download sizes. Zero means unlimited.
func WithMaxBytes(n int64) Option {
	return func(s *documentService) { s.maxBytes = n }
}

type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	log      *zap.Logger
	metrics  *metrics.Loader
	maxBytes int64
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, opts ...Option) DocumentService {
	s := &documentService{store: store, repo: repo, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *documentService) loadOptions() []xd.Option {
	return []xd.Option{xd.WithLogger(s.log), xd.WithMetrics(s.metrics)}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	data, err := s.readUpload(r)
	if err != nil {
		return nil, err
	}

	// Zip needs random access, so the upload is validated from memory.
	doc, err := xd.LoadReader(ctx, originalFilename, bytes.NewReader(data), int64(len(data)), s.loadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	manifestName := doc.Manifest.Name
	artboards := len(doc.Artboards)
	_ = doc.Close()

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.ContainerContentType
	}
	ext := filepath.Ext(originalFilename)
	if ext == "" {
		ext = defaultExt
	}
	genName := uuid.New().String() + ext
	key := storage.ContainerKey(genName)

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"manifest-name":     manifestName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	rec := &model.Document{
		ID:            uuid.New().String(),
		Filename:      genName,
		StoragePath:   objInfo.Key,
		Size:          objInfo.Size,
		ContentType:   objInfo.ContentType,
		ManifestName:  manifestName,
		ArtboardCount: artboards,
		CreatedAt:     time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("container uploaded",
		zap.String("id", stored.ID),
		zap.String("storage_path", stored.StoragePath),
		zap.Int("artboards", artboards),
		zap.Int64("declared_size", size),
	)
	return stored, nil
}

func (s *documentService) readUpload(r io.Reader) ([]byte, error) {
	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int, manifestName string) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset, ManifestName: manifestName})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// Storage goes first; on failure the row stays so the object is not orphaned.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// open loads the stored container for id. The caller must Close the result.
func (s *documentService) open(ctx context.Context, id string) (*xd.Document, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := storage.ReadAll(ctx, s.store, rec.StoragePath, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch container: %w", err)
	}
	doc, err := xd.LoadReader(ctx, rec.StoragePath, bytes.NewReader(data), int64(len(data)), s.loadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load container: %w", err)
	}
	return doc, nil
}

func (s *documentService) Artboards(ctx context.Context, id string) ([]ArtboardView, error) {
	doc, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	views := make([]ArtboardView, 0, len(doc.Artboards))
	for _, ab := range doc.Artboards {
		nodes := tree.Collect(ab.Nodes())
		if nodes == nil {
			nodes = []tree.Visit{}
		}
		views = append(views, ArtboardView{
			ID:    ab.Entry.ID,
			Name:  ab.Name(),
			Path:  ab.Entry.Path,
			Nodes: nodes,
		})
	}
	return views, nil
}

func (s *documentService) Resource(ctx context.Context, id, uid string) ([]byte, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, ErrResourceNotReferenced
	}
	doc, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	data, _, err := doc.Resource(&model.PatternMeta{UX: &model.PatternMetaUX{UID: uid}})
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, uid)
		}
		return nil, err
	}
	return data, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, rec.StoragePath, expiry)
}
