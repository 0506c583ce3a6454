package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core/document"
)

type documentRow struct {
	ID         string      `db:"id"`
	Title      string      `db:"title"`
	URL        string      `db:"url"`
	Category   string      `db:"category"`
	UploadedBy null.String `db:"uploaded_by"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func (r documentRow) unpack() document.Document {
	return document.Document{
		ID:         r.ID,
		Title:      r.Title,
		URL:        r.URL,
		Category:   r.Category,
		UploadedBy: r.UploadedBy,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type documentRepository struct {
	db *sqlx.DB
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *sqlx.DB) *documentRepository {
	return &documentRepository{db: db}
}

func (repo documentRepository) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	query := `
		INSERT INTO document (id, title, url, category, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(
		ctx, query,
		doc.ID, doc.Title, doc.URL, doc.Category, doc.UploadedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return document.Document{}, errors.Wrap(err, "creating document")
	}
	return doc, nil
}

func (repo documentRepository) GetDocumentByID(ctx context.Context, id string) (document.Document, error) {
	var row documentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM document WHERE id = $1`, id); err != nil {
		return document.Document{}, trapNoRowsErr(err, document.ErrNotFound, "getting document")
	}
	return row.unpack(), nil
}

func (repo documentRepository) QueryAllDocuments(ctx context.Context) ([]document.Document, error) {
	var rows []documentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM document ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying documents")
	}
	docs := make([]document.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.unpack())
	}
	return docs, nil
}

func (repo documentRepository) UpdateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	query := `
		UPDATE document SET title = $2, url = $3, category = $4, updated_at = $5
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, doc.ID, doc.Title, doc.URL, doc.Category, doc.UpdatedAt)
	if err != nil {
		return document.Document{}, errors.Wrap(err, "updating document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return document.Document{}, document.ErrNotFound
	}
	return doc, nil
}

func (repo documentRepository) DeleteDocumentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM document WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting documents")
	}
	return nil
}
