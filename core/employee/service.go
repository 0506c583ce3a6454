package employee

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core"
)

var (
	// errors
	ErrNotFound      = errors.New("employee not found")
	ErrEmailExists   = errors.New("an employee with this email already exists")
	ErrAlreadyLinked = errors.New("employee is already linked to a different user")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excluded ...Employee) error
		CreateEmployee(ctx context.Context, emp Employee) (Employee, error)
		GetEmployee(ctx context.Context, filter GetFilter) (Employee, error)
		QueryAllEmployees(ctx context.Context) ([]Employee, error)
		UpdateEmployee(ctx context.Context, emp Employee, canViewPlans *bool) (Employee, error)
		// SetEmployeeUser persists the one-time identity link. It must fail
		// with ErrAlreadyLinked when a different non-empty link exists.
		SetEmployeeUser(ctx context.Context, employeeID, userID string) error
		DeleteEmployeesByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string, excluded ...Employee) error
		Create(ctx context.Context, ne NewEmployee) (Employee, error)
		QueryAll(ctx context.Context) ([]Employee, error)
		GetByID(ctx context.Context, id string) (Employee, error)
		GetByUserID(ctx context.Context, userID string) (Employee, error)
		GetByEmail(ctx context.Context, email string) (Employee, error)
		Update(ctx context.Context, id string, ue UpdateEmployee) (Employee, error)
		LinkUser(ctx context.Context, employeeID, userID string) error
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

func (svc *Service) CheckEmailUniqueness(email string, excluded ...Employee) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, excluded...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ne NewEmployee) (Employee, error) {
	now := time.Now().UTC()
	emp := Employee{
		ID:               uuid.New().String(),
		Name:             ne.Name,
		Email:            ne.Email,
		Role:             ne.Role,
		CanViewPlans:     ne.CanViewPlans,
		PlanPermissions:  ne.PlanPermissions,
		NavPermissions:   ne.NavPermissions,
		VaultPermissions: ne.VaultPermissions,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if emp.PlanPermissions == nil {
		emp.PlanPermissions = BoolMap{}
	}
	if emp.NavPermissions == nil {
		emp.NavPermissions = BoolMap{}
	}
	if emp.VaultPermissions == nil {
		emp.VaultPermissions = PermMap{}
	}
	return svc.repo.CreateEmployee(ctx, emp)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Employee, error) {
	return svc.repo.QueryAllEmployees(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Employee, error) {
	return svc.repo.GetEmployee(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (Employee, error) {
	return svc.repo.GetEmployee(ctx, GetFilter{UserID: userID})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Employee, error) {
	return svc.repo.GetEmployee(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEmployee) (Employee, error) {
	emp := Employee{
		ID:               id,
		Name:             ue.Name,
		Email:            ue.Email,
		PlanPermissions:  ue.PlanPermissions,
		NavPermissions:   ue.NavPermissions,
		VaultPermissions: ue.VaultPermissions,
		UpdatedAt:        time.Now().UTC(),
	}
	if ue.Role != nil {
		emp.Role = core.CleanString(*ue.Role)
	}
	return svc.repo.UpdateEmployee(ctx, emp, ue.CanViewPlans)
}

// LinkUser persists the identity link on an Employee. Idempotent: linking to
// the already-linked user is a no-op; linking over a different user fails.
func (svc *Service) LinkUser(ctx context.Context, employeeID, userID string) error {
	return svc.repo.SetEmployeeUser(ctx, employeeID, userID)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEmployeesByID(ctx, ids...)
}
