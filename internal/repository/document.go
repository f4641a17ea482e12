// Package repository defines persistence for XD container metadata.
package repository

import (
	"context"

	"xdapi/internal/model"
)

// DocumentRepository persists one row per uploaded container. Implementations
// run queries only; validation and storage coordination live in the service.
type DocumentRepository interface {
	// Create inserts doc, which must carry its ID and CreatedAt, and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns the row for id, or an error matching sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns one page of rows, newest first, and the number of rows matching pq.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes the row for id. A missing row is not an error.
	Delete(ctx context.Context, id string) error
}

// PageQuery selects a page of rows. A non-empty ManifestName keeps only
// containers whose manifest carries that name.
type PageQuery struct {
	Limit        int
	Offset       int
	ManifestName string
}

// PageResult is one page of T plus the total across all pages.
type PageResult[T any] struct {
	Items []T
	Total int
}
