package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"xdapi/internal/model"
	"xdapi/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

var _ repository.DocumentRepository = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	stored, _ := args.Get(0).(*model.Document)
	return stored, args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*model.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, pq)
	page, _ := args.Get(0).(*repository.PageResult[model.Document])
	return page, args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
