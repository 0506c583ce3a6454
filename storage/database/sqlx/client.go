package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core/client"
)

type clientRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Company      string    `db:"company"`
	ContactEmail string    `db:"contact_email"`
	ContactPhone string    `db:"contact_phone"`
	Status       string    `db:"status"`
	Notes        string    `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r clientRow) unpack() client.Client {
	return client.Client{
		ID:           r.ID,
		Name:         r.Name,
		Company:      r.Company,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Status:       r.Status,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type campaignRow struct {
	ID        string       `db:"id"`
	ClientID  string       `db:"client_id"`
	Name      string       `db:"name"`
	Platform  string       `db:"platform"`
	Budget    null.Float64 `db:"budget"`
	StartsAt  null.Time    `db:"starts_at"`
	EndsAt    null.Time    `db:"ends_at"`
	Status    string       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

func (r campaignRow) unpack() client.Campaign {
	return client.Campaign{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Name:      r.Name,
		Platform:  r.Platform,
		Budget:    r.Budget,
		StartsAt:  r.StartsAt,
		EndsAt:    r.EndsAt,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type clientRepository struct {
	db *sqlx.DB
}

var _ client.Repository = (*clientRepository)(nil) // interface compliance check

func NewClientRepository(db *sqlx.DB) *clientRepository {
	return &clientRepository{db: db}
}

func (repo clientRepository) CreateClient(ctx context.Context, cl client.Client) (client.Client, error) {
	query := `
		INSERT INTO client (id, name, company, contact_email, contact_phone, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(
		ctx, query,
		cl.ID, cl.Name, cl.Company, cl.ContactEmail, cl.ContactPhone, cl.Status, cl.Notes, cl.CreatedAt, cl.UpdatedAt,
	)
	if err != nil {
		return client.Client{}, errors.Wrap(err, "creating client")
	}
	return cl, nil
}

func (repo clientRepository) GetClientByID(ctx context.Context, id string) (client.Client, error) {
	var row clientRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM client WHERE id = $1`, id); err != nil {
		return client.Client{}, trapNoRowsErr(err, client.ErrNotFound, "getting client")
	}
	return row.unpack(), nil
}

func (repo clientRepository) QueryAllClients(ctx context.Context) ([]client.Client, error) {
	var rows []clientRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM client ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying clients")
	}
	clients := make([]client.Client, 0, len(rows))
	for _, r := range rows {
		clients = append(clients, r.unpack())
	}
	return clients, nil
}

func (repo clientRepository) UpdateClient(ctx context.Context, cl client.Client) (client.Client, error) {
	query := `
		UPDATE client SET
			name = $2, company = $3, contact_email = $4, contact_phone = $5,
			status = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	res, err := repo.db.ExecContext(
		ctx, query,
		cl.ID, cl.Name, cl.Company, cl.ContactEmail, cl.ContactPhone, cl.Status, cl.Notes, cl.UpdatedAt,
	)
	if err != nil {
		return client.Client{}, errors.Wrap(err, "updating client")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return client.Client{}, client.ErrNotFound
	}
	return cl, nil
}

func (repo clientRepository) DeleteClientsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM client WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting clients")
	}
	return nil
}

func (repo clientRepository) CreateCampaign(ctx context.Context, cp client.Campaign) (client.Campaign, error) {
	query := `
		INSERT INTO campaign (id, client_id, name, platform, budget, starts_at, ends_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(
		ctx, query,
		cp.ID, cp.ClientID, cp.Name, cp.Platform, cp.Budget, cp.StartsAt, cp.EndsAt, cp.Status, cp.CreatedAt, cp.UpdatedAt,
	)
	if err != nil {
		return client.Campaign{}, errors.Wrap(err, "creating campaign")
	}
	return cp, nil
}

func (repo clientRepository) GetCampaignByID(ctx context.Context, id string) (client.Campaign, error) {
	var row campaignRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM campaign WHERE id = $1`, id); err != nil {
		return client.Campaign{}, trapNoRowsErr(err, client.ErrCampaignNotFound, "getting campaign")
	}
	return row.unpack(), nil
}

func (repo clientRepository) QueryCampaignsByClient(ctx context.Context, clientID string) ([]client.Campaign, error) {
	var rows []campaignRow
	query := `SELECT * FROM campaign WHERE client_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, clientID); err != nil {
		return nil, errors.Wrap(err, "querying campaigns by client")
	}
	return unpackCampaigns(rows), nil
}

func (repo clientRepository) QueryAllCampaigns(ctx context.Context) ([]client.Campaign, error) {
	var rows []campaignRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM campaign ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying campaigns")
	}
	return unpackCampaigns(rows), nil
}

func unpackCampaigns(rows []campaignRow) []client.Campaign {
	cps := make([]client.Campaign, 0, len(rows))
	for _, r := range rows {
		cps = append(cps, r.unpack())
	}
	return cps
}

func (repo clientRepository) UpdateCampaign(ctx context.Context, cp client.Campaign) (client.Campaign, error) {
	query := `
		UPDATE campaign SET
			name = $2, platform = $3, budget = $4, starts_at = $5,
			ends_at = $6, status = $7, updated_at = $8
		WHERE id = $1`
	res, err := repo.db.ExecContext(
		ctx, query,
		cp.ID, cp.Name, cp.Platform, cp.Budget, cp.StartsAt, cp.EndsAt, cp.Status, cp.UpdatedAt,
	)
	if err != nil {
		return client.Campaign{}, errors.Wrap(err, "updating campaign")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return client.Campaign{}, client.ErrCampaignNotFound
	}
	return cp, nil
}

func (repo clientRepository) DeleteCampaignsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM campaign WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting campaigns")
	}
	return nil
}
