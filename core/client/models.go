package client

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core"
)

// Client statuses
const (
	StatusProspect = "prospect"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Company      string    `json:"company"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

type Campaign struct {
	ID        string      `json:"id"`
	ClientID  string      `json:"client_id"`
	Name      string      `json:"name"`
	Platform  string      `json:"platform"`
	Budget    null.Float64 `json:"budget"`
	StartsAt  null.Time   `json:"starts_at"`
	EndsAt    null.Time   `json:"ends_at"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

type NewClient struct {
	Name         string `json:"name" validate:"required"`
	Company      string `json:"company"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

func (nc *NewClient) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Company = core.CleanString(nc.Company)
	nc.ContactEmail = core.CleanString(nc.ContactEmail, true /* lower */)
	if nc.Status == "" {
		nc.Status = StatusProspect
	}
	return validate.Struct(nc)
}

type UpdateClient struct {
	Name         string  `json:"name"`
	Company      *string `json:"company"`
	ContactEmail string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes"`
}

func (uc *UpdateClient) Validate(validate *validator.Validate, orig Client) error {
	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Status == "" {
		uc.Status = orig.Status
	}
	return validate.Struct(uc)
}

type NewCampaign struct {
	ClientID string       `json:"client_id" validate:"required"`
	Name     string       `json:"name" validate:"required"`
	Platform string       `json:"platform"`
	Budget   null.Float64 `json:"budget"`
	StartsAt null.Time    `json:"starts_at"`
	EndsAt   null.Time    `json:"ends_at"`
	Status   string       `json:"status"`
}

func (nc *NewCampaign) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Platform = core.CleanString(nc.Platform)
	if nc.Status == "" {
		nc.Status = StatusActive
	}
	return validate.Struct(nc)
}

type UpdateCampaign struct {
	Name     string        `json:"name"`
	Platform *string       `json:"platform"`
	Budget   *null.Float64 `json:"budget"`
	StartsAt *null.Time    `json:"starts_at"`
	EndsAt   *null.Time    `json:"ends_at"`
	Status   string        `json:"status"`
}

func (uc *UpdateCampaign) Validate(validate *validator.Validate, orig Campaign) error {
	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Status == "" {
		uc.Status = orig.Status
	}
	return validate.Struct(uc)
}
