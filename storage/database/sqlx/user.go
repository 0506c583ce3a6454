package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/user"
)

// oldest first
var userOrdering = core.DBOrdering{Field: "created_at", Ascending: true}

type userRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Email        string      `db:"email"`
	IsActive     bool        `db:"is_active"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT COUNT(*) FROM "user" WHERE email = $1`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		q, inArgs, err := sqlx.In(`SELECT COUNT(*) FROM "user" WHERE email = ? AND id NOT IN (?)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building query")
		}
		query, args = repo.db.Rebind(q), inArgs
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `
		INSERT INTO "user" (id, name, email, is_active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(
		ctx, query,
		usr.ID, usr.Name, usr.Email, usr.IsActive, null.BytesFrom(usr.PasswordHash), usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	if filter.IsEmpty() {
		return user.User{}, user.ErrNotFound
	}

	query := `SELECT * FROM "user" WHERE `
	var arg interface{}
	switch {
	case filter.ID != "":
		query += "id = $1"
		arg = filter.ID
	default:
		query += "email = $1"
		arg = filter.Email
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, arg); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "getting user")
	}
	return row.unpack(), nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM "user" ORDER BY `+userOrdering.String()); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.unpack())
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	query := `
		UPDATE "user" SET
			name          = COALESCE(NULLIF($2, ''), name),
			email         = COALESCE(NULLIF($3, ''), email),
			is_active     = COALESCE($4, is_active),
			password_hash = COALESCE($5, password_hash),
			updated_at    = COALESCE($6, updated_at),
			last_login    = COALESCE($7, last_login)
		WHERE id = $1`
	var hash null.Bytes
	if len(usr.PasswordHash) > 0 {
		hash = null.BytesFrom(usr.PasswordHash)
	}
	res, err := repo.db.ExecContext(
		ctx, query,
		usr.ID, usr.Name, usr.Email, null.BoolFromPtr(isActive), hash,
		null.NewTime(usr.UpdatedAt, !usr.UpdatedAt.IsZero()), null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero()),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
