package vault

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/wakala/core"
)

// Category is a named grouping of stored credentials. Access is granted per
// category via an employee's vault_permissions map.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Credential is one stored secret within a category.
type Credential struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Label      string    `json:"label"`
	Username   string    `json:"username"`
	Secret     string    `json:"secret"`
	URL        string    `json:"url"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

type NewCategory struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewCategory) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

type NewCredential struct {
	CategoryID string `json:"category_id" validate:"required"`
	Label      string `json:"label" validate:"required"`
	Username   string `json:"username"`
	Secret     string `json:"secret" validate:"required"`
	URL        string `json:"url" validate:"omitempty,url"`
	Notes      string `json:"notes"`
}

func (nc *NewCredential) Validate(validate *validator.Validate) error {
	nc.Label = core.CleanString(nc.Label)
	nc.Username = core.CleanString(nc.Username)
	nc.URL = core.CleanString(nc.URL)
	return validate.Struct(nc)
}

type UpdateCredential struct {
	Label    string  `json:"label"`
	Username *string `json:"username"`
	Secret   string  `json:"secret"`
	URL      string  `json:"url" validate:"omitempty,url"`
	Notes    *string `json:"notes"`
}

func (uc *UpdateCredential) Validate(validate *validator.Validate, orig Credential) error {
	label := core.CleanString(uc.Label)
	if label != "" {
		uc.Label = label
	} else {
		uc.Label = orig.Label
	}
	if uc.Secret == "" {
		uc.Secret = orig.Secret
	}
	url := core.CleanString(uc.URL)
	if url != "" {
		uc.URL = url
	} else {
		uc.URL = orig.URL
	}
	return validate.Struct(uc)
}
