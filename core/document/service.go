package document

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core"
)

var ErrNotFound = errors.New("document not found")

type (
	Repository interface {
		CreateDocument(ctx context.Context, doc Document) (Document, error)
		GetDocumentByID(ctx context.Context, id string) (Document, error)
		QueryAllDocuments(ctx context.Context) ([]Document, error)
		UpdateDocument(ctx context.Context, doc Document) (Document, error)
		DeleteDocumentsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nd NewDocument) (Document, error)
		QueryAll(ctx context.Context) ([]Document, error)
		GetByID(ctx context.Context, id string) (Document, error)
		Update(ctx context.Context, id string, ud UpdateDocument) (Document, error)
		Delete(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nd NewDocument) (Document, error) {
	now := time.Now().UTC()
	doc := Document{
		ID:         uuid.New().String(),
		Title:      nd.Title,
		URL:        nd.URL,
		Category:   nd.Category,
		UploadedBy: nd.UploadedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateDocument(ctx, doc)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Document, error) {
	return svc.repo.QueryAllDocuments(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Document, error) {
	return svc.repo.GetDocumentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ud UpdateDocument) (Document, error) {
	orig, err := svc.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc := orig
	doc.Title = ud.Title
	doc.URL = ud.URL
	if ud.Category != nil {
		doc.Category = core.CleanString(*ud.Category)
	}
	doc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateDocument(ctx, doc)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteDocumentsByID(ctx, ids...)
}
