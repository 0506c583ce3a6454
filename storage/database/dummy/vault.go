package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/wakala/core/vault"
)

type vaultRepository struct {
	categories  *categoryTable
	credentials *credentialTable
}

var _ vault.Repository = (*vaultRepository)(nil) // interface compliance check

func NewVaultRepository(db *DB) vault.Repository {
	return &vaultRepository{categories: db.category, credentials: db.credential}
}

func (repo *vaultRepository) CreateCategory(ctx context.Context, cat vault.Category) (vault.Category, error) {
	repo.categories.Lock()
	defer repo.categories.Unlock()

	repo.categories.table[cat.ID] = &cat
	return cat, nil
}

func (repo *vaultRepository) GetCategoryByID(ctx context.Context, id string) (vault.Category, error) {
	repo.categories.RLock()
	defer repo.categories.RUnlock()

	if cat, ok := repo.categories.table[id]; ok {
		return *cat, nil
	}
	return vault.Category{}, vault.ErrCategoryNotFound
}

func (repo *vaultRepository) QueryAllCategories(ctx context.Context) ([]vault.Category, error) {
	repo.categories.RLock()
	defer repo.categories.RUnlock()

	cats := make([]vault.Category, 0, len(repo.categories.table))
	for _, cat := range repo.categories.table {
		cats = append(cats, *cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (repo *vaultRepository) DeleteCategoriesByID(ctx context.Context, ids ...string) error {
	repo.categories.Lock()
	defer repo.categories.Unlock()

	for _, id := range ids {
		delete(repo.categories.table, id)
	}
	return nil
}

func (repo *vaultRepository) CreateCredential(ctx context.Context, cred vault.Credential) (vault.Credential, error) {
	repo.credentials.Lock()
	defer repo.credentials.Unlock()

	repo.credentials.table[cred.ID] = &cred
	return cred, nil
}

func (repo *vaultRepository) GetCredentialByID(ctx context.Context, id string) (vault.Credential, error) {
	repo.credentials.RLock()
	defer repo.credentials.RUnlock()

	if cred, ok := repo.credentials.table[id]; ok {
		return *cred, nil
	}
	return vault.Credential{}, vault.ErrCredentialNotFound
}

func (repo *vaultRepository) QueryCredentialsByCategory(ctx context.Context, categoryID string) ([]vault.Credential, error) {
	repo.credentials.RLock()
	defer repo.credentials.RUnlock()

	var creds []vault.Credential
	for _, cred := range repo.credentials.table {
		if cred.CategoryID == categoryID {
			creds = append(creds, *cred)
		}
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Label < creds[j].Label })
	return creds, nil
}

func (repo *vaultRepository) UpdateCredential(ctx context.Context, cred vault.Credential) (vault.Credential, error) {
	repo.credentials.Lock()
	defer repo.credentials.Unlock()

	if _, ok := repo.credentials.table[cred.ID]; !ok {
		return vault.Credential{}, vault.ErrCredentialNotFound
	}
	repo.credentials.table[cred.ID] = &cred
	return cred, nil
}

func (repo *vaultRepository) DeleteCredentialsByID(ctx context.Context, ids ...string) error {
	repo.credentials.Lock()
	defer repo.credentials.Unlock()

	for _, id := range ids {
		delete(repo.credentials.table, id)
	}
	return nil
}
