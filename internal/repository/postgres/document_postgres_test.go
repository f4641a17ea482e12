package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"xdapi/internal/model"
	"xdapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "filename", "storage_path", "size", "content_type", "manifest_name", "artboard_count", "created_at"}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:            "test-uuid",
		Filename:      "test.xd",
		StoragePath:   "containers/test.xd",
		Size:          123,
		ContentType:   "application/vnd.adobe.xd",
		ManifestName:  "Landing",
		ArtboardCount: 3,
		CreatedAt:     now,
	}

	rows := sqlmock.NewRows(columns).
		AddRow(doc.ID, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType, doc.ManifestName, doc.ArtboardCount, doc.CreatedAt)

	mock.ExpectQuery("INSERT INTO xd_documents").
		WithArgs(doc.ID, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType, doc.ManifestName, doc.ArtboardCount, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	require.NoError(t, err)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, "Landing", result.ManifestName)
	assert.Equal(t, 3, result.ArtboardCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow("test-id", "file.xd", "containers/file.xd", 100, "application/zip", "Board", 1, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM xd_documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "test-id")

		require.NoError(t, err)
		assert.Equal(t, "test-id", doc.ID)
		assert.Equal(t, 1, doc.ArtboardCount)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM xd_documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM xd_documents").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(columns).
			AddRow("id-2", "b.xd", "containers/b.xd", 100, "application/zip", "B", 2, time.Now()).
			AddRow("id-1", "a.xd", "containers/a.xd", 50, "application/zip", "A", 1, time.Now().Add(-time.Hour))

		mock.ExpectQuery("SELECT (.+) FROM xd_documents ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "id-2", res.Items[0].ID)
	})

	t.Run("manifest filter", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM xd_documents WHERE manifest_name = \\$1").
			WithArgs("Landing").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(columns).
			AddRow("id-3", "c.xd", "containers/c.xd", 70, "application/zip", "Landing", 4, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM xd_documents WHERE manifest_name = \\$1 ORDER BY (.+) LIMIT \\$2 OFFSET \\$3").
			WithArgs("Landing", 5, 10).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 5, Offset: 10, ManifestName: "Landing"})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Landing", res.Items[0].ManifestName)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM xd_documents").
			WillReturnError(errors.New("boom"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})
		assert.Error(t, err)
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM xd_documents WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "test-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
