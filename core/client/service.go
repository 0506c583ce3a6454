package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core"
)

var (
	// errors
	ErrNotFound         = errors.New("client not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)

type (
	Repository interface {
		CreateClient(ctx context.Context, cl Client) (Client, error)
		GetClientByID(ctx context.Context, id string) (Client, error)
		QueryAllClients(ctx context.Context) ([]Client, error)
		UpdateClient(ctx context.Context, cl Client) (Client, error)
		DeleteClientsByID(ctx context.Context, ids ...string) error

		CreateCampaign(ctx context.Context, cp Campaign) (Campaign, error)
		GetCampaignByID(ctx context.Context, id string) (Campaign, error)
		QueryCampaignsByClient(ctx context.Context, clientID string) ([]Campaign, error)
		QueryAllCampaigns(ctx context.Context) ([]Campaign, error)
		UpdateCampaign(ctx context.Context, cp Campaign) (Campaign, error)
		DeleteCampaignsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nc NewClient) (Client, error)
		QueryAll(ctx context.Context) ([]Client, error)
		GetByID(ctx context.Context, id string) (Client, error)
		Update(ctx context.Context, id string, uc UpdateClient) (Client, error)
		Delete(ctx context.Context, ids ...string) error

		CreateCampaign(ctx context.Context, nc NewCampaign) (Campaign, error)
		QueryAllCampaigns(ctx context.Context) ([]Campaign, error)
		QueryCampaignsByClient(ctx context.Context, clientID string) ([]Campaign, error)
		GetCampaignByID(ctx context.Context, id string) (Campaign, error)
		UpdateCampaign(ctx context.Context, id string, uc UpdateCampaign) (Campaign, error)
		DeleteCampaigns(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewClient) (Client, error) {
	now := time.Now().UTC()
	cl := Client{
		ID:           uuid.New().String(),
		Name:         nc.Name,
		Company:      nc.Company,
		ContactEmail: nc.ContactEmail,
		ContactPhone: nc.ContactPhone,
		Status:       nc.Status,
		Notes:        nc.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateClient(ctx, cl)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Client, error) {
	return svc.repo.QueryAllClients(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Client, error) {
	return svc.repo.GetClientByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClient) (Client, error) {
	orig, err := svc.repo.GetClientByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	cl := orig
	cl.Name = uc.Name
	cl.Status = uc.Status
	cl.ContactEmail = uc.ContactEmail
	if uc.Company != nil {
		cl.Company = core.CleanString(*uc.Company)
	}
	if uc.ContactPhone != nil {
		cl.ContactPhone = core.CleanString(*uc.ContactPhone)
	}
	if uc.Notes != nil {
		cl.Notes = *uc.Notes
	}
	cl.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClient(ctx, cl)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteClientsByID(ctx, ids...)
}

func (svc *Service) CreateCampaign(ctx context.Context, nc NewCampaign) (Campaign, error) {
	if _, err := svc.repo.GetClientByID(ctx, nc.ClientID); err != nil {
		return Campaign{}, err
	}
	now := time.Now().UTC()
	cp := Campaign{
		ID:        uuid.New().String(),
		ClientID:  nc.ClientID,
		Name:      nc.Name,
		Platform:  nc.Platform,
		Budget:    nc.Budget,
		StartsAt:  nc.StartsAt,
		EndsAt:    nc.EndsAt,
		Status:    nc.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCampaign(ctx, cp)
}

func (svc *Service) QueryAllCampaigns(ctx context.Context) ([]Campaign, error) {
	return svc.repo.QueryAllCampaigns(ctx)
}

func (svc *Service) QueryCampaignsByClient(ctx context.Context, clientID string) ([]Campaign, error) {
	return svc.repo.QueryCampaignsByClient(ctx, clientID)
}

func (svc *Service) GetCampaignByID(ctx context.Context, id string) (Campaign, error) {
	return svc.repo.GetCampaignByID(ctx, id)
}

func (svc *Service) UpdateCampaign(ctx context.Context, id string, uc UpdateCampaign) (Campaign, error) {
	orig, err := svc.repo.GetCampaignByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	cp := orig
	cp.Name = uc.Name
	cp.Status = uc.Status
	if uc.Platform != nil {
		cp.Platform = core.CleanString(*uc.Platform)
	}
	if uc.Budget != nil {
		cp.Budget = *uc.Budget
	}
	if uc.StartsAt != nil {
		cp.StartsAt = *uc.StartsAt
	}
	if uc.EndsAt != nil {
		cp.EndsAt = *uc.EndsAt
	}
	cp.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCampaign(ctx, cp)
}

func (svc *Service) DeleteCampaigns(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCampaignsByID(ctx, ids...)
}
