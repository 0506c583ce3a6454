package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/wakala/core/document"
)

type documentRepository struct {
	db *documentTable
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) document.Repository {
	return &documentRepository{db: db.document}
}

func (repo *documentRepository) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[doc.ID] = &doc
	return doc, nil
}

func (repo *documentRepository) GetDocumentByID(ctx context.Context, id string) (document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.table[id]; ok {
		return *doc, nil
	}
	return document.Document{}, document.ErrNotFound
}

func (repo *documentRepository) QueryAllDocuments(ctx context.Context) ([]document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]document.Document, 0, len(repo.db.table))
	for _, doc := range repo.db.table {
		docs = append(docs, *doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

func (repo *documentRepository) UpdateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[doc.ID]; !ok {
		return document.Document{}, document.ErrNotFound
	}
	repo.db.table[doc.ID] = &doc
	return doc, nil
}

func (repo *documentRepository) DeleteDocumentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
