// Package session resolves an authenticated identity into the capability
// bundle that gates the rest of the application: employee linkage, admin
// override, and the per-section / per-category permission maps.
package session

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/user"
)

// UserSession is an immutable snapshot of the caller's capabilities. It is
// recomputed on every session check and replaced wholesale; nothing mutates
// a UserSession in place.
type UserSession struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`

	IsAdmin        bool `json:"is_admin"`
	IsSalesManager bool `json:"is_sales_manager"`

	// EmployeeID is empty for an authenticated identity with no matching
	// employee record ("account not linked"); callers must treat that as a
	// distinct state, not as "no session".
	EmployeeID string `json:"employee_id,omitempty"`

	CanViewPlans     bool             `json:"can_view_plans"`
	PlanPermissions  employee.BoolMap `json:"plan_permissions"`
	NavPermissions   employee.BoolMap `json:"nav_permissions"`
	VaultPermissions employee.PermMap `json:"vault_permissions"`
}

// HasNav reports whether the session may see the given section key.
// Deny-by-default: a missing key is false. Admin bypasses the map.
func (s UserSession) HasNav(key string) bool {
	if s.IsAdmin {
		return true
	}
	return s.NavPermissions[key]
}

// VaultPerm returns the session's permission level for a vault category
// ("", "view" or "edit"). Admin implies edit on every category.
func (s UserSession) VaultPerm(categoryID string) string {
	if s.IsAdmin {
		return employee.VaultPermEdit
	}
	return s.VaultPermissions[categoryID]
}

// CanEditVault reports whether the session may modify credentials in the category.
func (s UserSession) CanEditVault(categoryID string) bool {
	return s.VaultPerm(categoryID) == employee.VaultPermEdit
}

// CanViewVault reports whether the session may read credentials in the category.
func (s UserSession) CanViewVault(categoryID string) bool {
	p := s.VaultPerm(categoryID)
	return p == employee.VaultPermView || p == employee.VaultPermEdit
}

// lookupOutcome tags how (and whether) an employee record was found for an
// identity, so the auto-link side effect can be attached to exactly one path.
type lookupOutcome int

const (
	notFound lookupOutcome = iota
	foundByLink
	foundByEmail
)

type Resolver struct {
	empRepo employee.Repository
	logger  core.Logger
	conf    *core.Config
}

func NewResolver(empRepo employee.Repository, logger core.Logger, conf *core.Config) *Resolver {
	return &Resolver{empRepo: empRepo, logger: logger, conf: conf}
}

// Resolve derives a UserSession for an authenticated identity.
//
// The employee is looked up by identity link first, then by email (records
// pre-created by an admin are not linked until first login). When found by
// email the identity link is persisted once; a failing link write is logged
// and swallowed: the session is still usable and the write retries on the
// next login. A missing employee record is a valid degraded session, never
// an error; only identity-store failures propagate.
func (r *Resolver) Resolve(ctx context.Context, usr user.User) (UserSession, error) {
	sess := UserSession{
		UserID:           usr.ID,
		Email:            usr.Email,
		IsAdmin:          core.CleanString(usr.Email, true /* lower */) == r.conf.AdminEmail,
		PlanPermissions:  employee.BoolMap{},
		NavPermissions:   employee.BoolMap{},
		VaultPermissions: employee.PermMap{},
	}

	emp, outcome, err := r.lookup(ctx, usr)
	if err != nil {
		return UserSession{}, err
	}
	if outcome == notFound {
		return sess, nil
	}

	if outcome == foundByEmail {
		if err := r.empRepo.SetEmployeeUser(ctx, emp.ID, usr.ID); err != nil {
			// non-fatal: the employee is still resolvable by email next time
			r.logger.Error(fmt.Sprintf("linking employee %s to user %s: %v", emp.ID, usr.ID, err), err)
		}
	}

	sess.EmployeeID = emp.ID
	sess.IsSalesManager = emp.IsSalesManager()
	sess.CanViewPlans = emp.CanViewPlans
	if emp.PlanPermissions != nil {
		sess.PlanPermissions = emp.PlanPermissions
	}
	if emp.NavPermissions != nil {
		sess.NavPermissions = emp.NavPermissions
	}
	if emp.VaultPermissions != nil {
		sess.VaultPermissions = emp.VaultPermissions
	}
	return sess, nil
}

func (r *Resolver) lookup(ctx context.Context, usr user.User) (employee.Employee, lookupOutcome, error) {
	emp, err := r.empRepo.GetEmployee(ctx, employee.GetFilter{UserID: usr.ID})
	if err == nil {
		return emp, foundByLink, nil
	}
	if errors.Cause(err) != employee.ErrNotFound {
		return employee.Employee{}, notFound, errors.Wrap(err, "finding employee by user ID")
	}

	emp, err = r.empRepo.GetEmployee(ctx, employee.GetFilter{Email: core.CleanString(usr.Email, true /* lower */)})
	if err == nil {
		if emp.UserID.Valid && emp.UserID.String != "" && emp.UserID.String != usr.ID {
			// record belongs to a different identity; treat as no match
			return employee.Employee{}, notFound, nil
		}
		return emp, foundByEmail, nil
	}
	if errors.Cause(err) != employee.ErrNotFound {
		return employee.Employee{}, notFound, errors.Wrap(err, "finding employee by email")
	}
	return employee.Employee{}, notFound, nil
}
