package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core/vault"
)

type vaultCategoryRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type vaultCredentialRow struct {
	ID         string    `db:"id"`
	CategoryID string    `db:"category_id"`
	Label      string    `db:"label"`
	Username   string    `db:"username"`
	Secret     string    `db:"secret"`
	URL        string    `db:"url"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r vaultCredentialRow) unpack() vault.Credential {
	return vault.Credential{
		ID:         r.ID,
		CategoryID: r.CategoryID,
		Label:      r.Label,
		Username:   r.Username,
		Secret:     r.Secret,
		URL:        r.URL,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type vaultRepository struct {
	db *sqlx.DB
}

var _ vault.Repository = (*vaultRepository)(nil) // interface compliance check

func NewVaultRepository(db *sqlx.DB) *vaultRepository {
	return &vaultRepository{db: db}
}

func (repo vaultRepository) CreateCategory(ctx context.Context, cat vault.Category) (vault.Category, error) {
	query := `INSERT INTO vault_category (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, query, cat.ID, cat.Name, cat.CreatedAt); err != nil {
		return vault.Category{}, errors.Wrap(err, "creating vault category")
	}
	return cat, nil
}

func (repo vaultRepository) GetCategoryByID(ctx context.Context, id string) (vault.Category, error) {
	var row vaultCategoryRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM vault_category WHERE id = $1`, id); err != nil {
		return vault.Category{}, trapNoRowsErr(err, vault.ErrCategoryNotFound, "getting vault category")
	}
	return vault.Category{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}, nil
}

func (repo vaultRepository) QueryAllCategories(ctx context.Context) ([]vault.Category, error) {
	var rows []vaultCategoryRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM vault_category ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying vault categories")
	}
	cats := make([]vault.Category, 0, len(rows))
	for _, r := range rows {
		cats = append(cats, vault.Category{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt})
	}
	return cats, nil
}

func (repo vaultRepository) DeleteCategoriesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM vault_category WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting vault categories")
	}
	return nil
}

func (repo vaultRepository) CreateCredential(ctx context.Context, cred vault.Credential) (vault.Credential, error) {
	query := `
		INSERT INTO vault_credential (id, category_id, label, username, secret, url, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(
		ctx, query,
		cred.ID, cred.CategoryID, cred.Label, cred.Username, cred.Secret, cred.URL, cred.Notes, cred.CreatedAt, cred.UpdatedAt,
	)
	if err != nil {
		return vault.Credential{}, errors.Wrap(err, "creating credential")
	}
	return cred, nil
}

func (repo vaultRepository) GetCredentialByID(ctx context.Context, id string) (vault.Credential, error) {
	var row vaultCredentialRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM vault_credential WHERE id = $1`, id); err != nil {
		return vault.Credential{}, trapNoRowsErr(err, vault.ErrCredentialNotFound, "getting credential")
	}
	return row.unpack(), nil
}

func (repo vaultRepository) QueryCredentialsByCategory(ctx context.Context, categoryID string) ([]vault.Credential, error) {
	var rows []vaultCredentialRow
	query := `SELECT * FROM vault_credential WHERE category_id = $1 ORDER BY label`
	if err := repo.db.SelectContext(ctx, &rows, query, categoryID); err != nil {
		return nil, errors.Wrap(err, "querying credentials by category")
	}
	creds := make([]vault.Credential, 0, len(rows))
	for _, r := range rows {
		creds = append(creds, r.unpack())
	}
	return creds, nil
}

func (repo vaultRepository) UpdateCredential(ctx context.Context, cred vault.Credential) (vault.Credential, error) {
	query := `
		UPDATE vault_credential SET
			label = $2, username = $3, secret = $4, url = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	res, err := repo.db.ExecContext(
		ctx, query,
		cred.ID, cred.Label, cred.Username, cred.Secret, cred.URL, cred.Notes, cred.UpdatedAt,
	)
	if err != nil {
		return vault.Credential{}, errors.Wrap(err, "updating credential")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return vault.Credential{}, vault.ErrCredentialNotFound
	}
	return cred, nil
}

func (repo vaultRepository) DeleteCredentialsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM vault_credential WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting credentials")
	}
	return nil
}
