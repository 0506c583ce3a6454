package employee

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core"
)

// Vault permission levels, per vault category.
const (
	VaultPermView = "view"
	VaultPermEdit = "edit"
)

type (
	// BoolMap is a JSONB column of string -> bool flags (nav & plan permissions).
	BoolMap map[string]bool

	// PermMap is a JSONB column of vault category ID -> permission level.
	PermMap map[string]string
)

func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *BoolMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func (m PermMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *PermMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	}
	return errors.Errorf("unsupported scan type %T", src)
}

// Employee is a staff record. It may exist without a linked identity (UserID
// unset) until its owner first logs in with a matching email; the link is
// then persisted once and never overwritten.
type Employee struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	UserID           null.String `json:"user_id"`
	Role             string      `json:"role"` // free-text label
	CanViewPlans     bool        `json:"can_view_plans"`
	PlanPermissions  BoolMap     `json:"plan_permissions"`
	NavPermissions   BoolMap     `json:"nav_permissions"`
	VaultPermissions PermMap     `json:"vault_permissions"`
	CreatedAt        time.Time   `json:"created_at"` // UTC
	UpdatedAt        time.Time   `json:"updated_at"` // UTC
}

// IsSalesManager reports whether the role label designates a sales manager.
// Both "sales manager" and "salesmanager" spellings are accepted.
func (e Employee) IsSalesManager() bool {
	role := strings.ReplaceAll(core.CleanString(e.Role, true /* lower */), " ", "")
	return role == "salesmanager"
}

// NewEmployee contains information needed to create a new Employee.
type NewEmployee struct {
	Name             string  `json:"name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Role             string  `json:"role"`
	CanViewPlans     bool    `json:"can_view_plans"`
	PlanPermissions  BoolMap `json:"plan_permissions"`
	NavPermissions   BoolMap `json:"nav_permissions"`
	VaultPermissions PermMap `json:"vault_permissions"`
}

func (ne *NewEmployee) Validate(validate *validator.Validate, svc ServiceInterface) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Email = core.CleanString(ne.Email, true /* lower */)
	ne.Role = core.CleanString(ne.Role)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ne.Email)
}

// UpdateEmployee defines what information may be provided to modify an existing Employee.
// Nil permission maps leave the stored maps untouched.
type UpdateEmployee struct {
	Name             string  `json:"name"`
	Email            string  `json:"email" validate:"omitempty,email"`
	Role             *string `json:"role"`
	CanViewPlans     *bool   `json:"can_view_plans"`
	PlanPermissions  BoolMap `json:"plan_permissions"`
	NavPermissions   BoolMap `json:"nav_permissions"`
	VaultPermissions PermMap `json:"vault_permissions"`
}

func (ue *UpdateEmployee) Validate(validate *validator.Validate, orig Employee, svc ServiceInterface) error {
	name := core.CleanString(ue.Name)
	if name != "" {
		ue.Name = name
	} else {
		ue.Name = orig.Name
	}

	email := core.CleanString(ue.Email, true /* lower */)
	if email != "" {
		ue.Email = email
	} else {
		ue.Email = orig.Email
	}

	if err := validate.Struct(ue); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ue.Email, orig)
}

// GetFilter selects a single Employee; exactly one field should be set.
type GetFilter struct {
	ID     string
	UserID string
	Email  string
}

func (f GetFilter) IsEmpty() bool { return f.ID == "" && f.UserID == "" && f.Email == "" }
