package vault

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core"
)

var (
	// errors
	ErrCategoryNotFound   = errors.New("vault category not found")
	ErrCredentialNotFound = errors.New("credential not found")
)

type (
	Repository interface {
		CreateCategory(ctx context.Context, cat Category) (Category, error)
		GetCategoryByID(ctx context.Context, id string) (Category, error)
		QueryAllCategories(ctx context.Context) ([]Category, error)
		DeleteCategoriesByID(ctx context.Context, ids ...string) error

		CreateCredential(ctx context.Context, cred Credential) (Credential, error)
		GetCredentialByID(ctx context.Context, id string) (Credential, error)
		QueryCredentialsByCategory(ctx context.Context, categoryID string) ([]Credential, error)
		UpdateCredential(ctx context.Context, cred Credential) (Credential, error)
		DeleteCredentialsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CreateCategory(ctx context.Context, nc NewCategory) (Category, error)
		QueryCategories(ctx context.Context) ([]Category, error)
		GetCategoryByID(ctx context.Context, id string) (Category, error)
		DeleteCategories(ctx context.Context, ids ...string) error

		CreateCredential(ctx context.Context, nc NewCredential) (Credential, error)
		QueryByCategory(ctx context.Context, categoryID string) ([]Credential, error)
		GetCredentialByID(ctx context.Context, id string) (Credential, error)
		UpdateCredential(ctx context.Context, id string, uc UpdateCredential) (Credential, error)
		DeleteCredentials(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateCategory(ctx context.Context, nc NewCategory) (Category, error) {
	cat := Category{
		ID:        uuid.New().String(),
		Name:      nc.Name,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateCategory(ctx, cat)
}

func (svc *Service) QueryCategories(ctx context.Context) ([]Category, error) {
	return svc.repo.QueryAllCategories(ctx)
}

func (svc *Service) GetCategoryByID(ctx context.Context, id string) (Category, error) {
	return svc.repo.GetCategoryByID(ctx, id)
}

func (svc *Service) DeleteCategories(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCategoriesByID(ctx, ids...)
}

func (svc *Service) CreateCredential(ctx context.Context, nc NewCredential) (Credential, error) {
	if _, err := svc.repo.GetCategoryByID(ctx, nc.CategoryID); err != nil {
		return Credential{}, err
	}
	now := time.Now().UTC()
	cred := Credential{
		ID:         uuid.New().String(),
		CategoryID: nc.CategoryID,
		Label:      nc.Label,
		Username:   nc.Username,
		Secret:     nc.Secret,
		URL:        nc.URL,
		Notes:      nc.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateCredential(ctx, cred)
}

func (svc *Service) QueryByCategory(ctx context.Context, categoryID string) ([]Credential, error) {
	return svc.repo.QueryCredentialsByCategory(ctx, categoryID)
}

func (svc *Service) GetCredentialByID(ctx context.Context, id string) (Credential, error) {
	return svc.repo.GetCredentialByID(ctx, id)
}

func (svc *Service) UpdateCredential(ctx context.Context, id string, uc UpdateCredential) (Credential, error) {
	orig, err := svc.repo.GetCredentialByID(ctx, id)
	if err != nil {
		return Credential{}, err
	}
	cred := orig
	cred.Label = uc.Label
	cred.Secret = uc.Secret
	cred.URL = uc.URL
	if uc.Username != nil {
		cred.Username = core.CleanString(*uc.Username)
	}
	if uc.Notes != nil {
		cred.Notes = *uc.Notes
	}
	cred.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCredential(ctx, cred)
}

func (svc *Service) DeleteCredentials(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCredentialsByID(ctx, ids...)
}
