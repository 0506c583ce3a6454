package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core/employee"
)

type employeeRow struct {
	ID               string           `db:"id"`
	Name             string           `db:"name"`
	Email            string           `db:"email"`
	UserID           null.String      `db:"user_id"`
	Role             string           `db:"role"`
	CanViewPlans     bool             `db:"can_view_plans"`
	PlanPermissions  employee.BoolMap `db:"plan_permissions"`
	NavPermissions   employee.BoolMap `db:"nav_permissions"`
	VaultPermissions employee.PermMap `db:"vault_permissions"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

func (r employeeRow) unpack() employee.Employee {
	return employee.Employee{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		UserID:           r.UserID,
		Role:             r.Role,
		CanViewPlans:     r.CanViewPlans,
		PlanPermissions:  r.PlanPermissions,
		NavPermissions:   r.NavPermissions,
		VaultPermissions: r.VaultPermissions,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type employeeRepository struct {
	db *sqlx.DB
}

var _ employee.Repository = (*employeeRepository)(nil) // interface compliance check

func NewEmployeeRepository(db *sqlx.DB) *employeeRepository {
	return &employeeRepository{db: db}
}

func (repo employeeRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...employee.Employee) error {
	query := `SELECT COUNT(*) FROM employee WHERE email = $1`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, e := range excluded {
			ids = append(ids, e.ID)
		}
		q, inArgs, err := sqlx.In(`SELECT COUNT(*) FROM employee WHERE email = ? AND id NOT IN (?)`, email, ids)
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
		return employee.ErrEmailExists
	}
	return nil
}

func (repo employeeRepository) CreateEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	query := `
		INSERT INTO employee (
			id, name, email, user_id, role, can_view_plans,
			plan_permissions, nav_permissions, vault_permissions, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.db.ExecContext(
		ctx, query,
		emp.ID, emp.Name, emp.Email, emp.UserID, emp.Role, emp.CanViewPlans,
		emp.PlanPermissions, emp.NavPermissions, emp.VaultPermissions, emp.CreatedAt, emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "creating employee")
	}
	return emp, nil
}

func (repo employeeRepository) GetEmployee(ctx context.Context, filter employee.GetFilter) (employee.Employee, error) {
	if filter.IsEmpty() {
		return employee.Employee{}, employee.ErrNotFound
	}

	query := `SELECT * FROM employee WHERE `
	var arg interface{}
	switch {
	case filter.ID != "":
		query += "id = $1"
		arg = filter.ID
	case filter.UserID != "":
		query += "user_id = $1"
		arg = filter.UserID
	default:
		query += "email = $1"
		arg = filter.Email
	}

	var row employeeRow
	if err := repo.db.GetContext(ctx, &row, query, arg); err != nil {
		return employee.Employee{}, trapNoRowsErr(err, employee.ErrNotFound, "getting employee")
	}
	return row.unpack(), nil
}

func (repo employeeRepository) QueryAllEmployees(ctx context.Context) ([]employee.Employee, error) {
	var rows []employeeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM employee ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying employees")
	}
	emps := make([]employee.Employee, 0, len(rows))
	for _, r := range rows {
		emps = append(emps, r.unpack())
	}
	return emps, nil
}

func (repo employeeRepository) UpdateEmployee(ctx context.Context, emp employee.Employee, canViewPlans *bool) (employee.Employee, error) {
	query := `
		UPDATE employee SET
			name              = COALESCE(NULLIF($2, ''), name),
			email             = COALESCE(NULLIF($3, ''), email),
			role              = COALESCE(NULLIF($4, ''), role),
			can_view_plans    = COALESCE($5, can_view_plans),
			plan_permissions  = COALESCE($6, plan_permissions),
			nav_permissions   = COALESCE($7, nav_permissions),
			vault_permissions = COALESCE($8, vault_permissions),
			updated_at        = $9
		WHERE id = $1`
	res, err := repo.db.ExecContext(
		ctx, query,
		emp.ID, emp.Name, emp.Email, emp.Role, null.BoolFromPtr(canViewPlans),
		nilIfEmptyBoolMap(emp.PlanPermissions), nilIfEmptyBoolMap(emp.NavPermissions), nilIfEmptyPermMap(emp.VaultPermissions),
		emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "updating employee")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}
	return repo.GetEmployee(ctx, employee.GetFilter{ID: emp.ID})
}

// nil maps must reach the driver as SQL NULL so COALESCE keeps the stored value.
func nilIfEmptyBoolMap(m employee.BoolMap) interface{} {
	if m == nil {
		return nil
	}
	return m
}

func nilIfEmptyPermMap(m employee.PermMap) interface{} {
	if m == nil {
		return nil
	}
	return m
}

// SetEmployeeUser persists the one-time identity link. The guard runs in the
// UPDATE itself so concurrent logins cannot race past it.
func (repo employeeRepository) SetEmployeeUser(ctx context.Context, employeeID, userID string) error {
	query := `
		UPDATE employee SET user_id = $2, updated_at = $3
		WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`
	res, err := repo.db.ExecContext(ctx, query, employeeID, userID, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "linking employee to user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish a missing employee from an existing different link
		var count int
		if err = repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM employee WHERE id = $1`, employeeID); err != nil {
			return errors.Wrap(err, "linking employee to user")
		}
		if count == 0 {
			return employee.ErrNotFound
		}
		return employee.ErrAlreadyLinked
	}
	return nil
}

func (repo employeeRepository) DeleteEmployeesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM employee WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting employees")
	}
	return nil
}
