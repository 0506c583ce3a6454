package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/wakala/core/client"
)

type clientRepository struct {
	clients   *clientTable
	campaigns *campaignTable
}

var _ client.Repository = (*clientRepository)(nil) // interface compliance check

func NewClientRepository(db *DB) client.Repository {
	return &clientRepository{clients: db.client, campaigns: db.campaign}
}

func (repo *clientRepository) CreateClient(ctx context.Context, cl client.Client) (client.Client, error) {
	repo.clients.Lock()
	defer repo.clients.Unlock()

	repo.clients.table[cl.ID] = &cl
	return cl, nil
}

func (repo *clientRepository) GetClientByID(ctx context.Context, id string) (client.Client, error) {
	repo.clients.RLock()
	defer repo.clients.RUnlock()

	if cl, ok := repo.clients.table[id]; ok {
		return *cl, nil
	}
	return client.Client{}, client.ErrNotFound
}

func (repo *clientRepository) QueryAllClients(ctx context.Context) ([]client.Client, error) {
	repo.clients.RLock()
	defer repo.clients.RUnlock()

	clients := make([]client.Client, 0, len(repo.clients.table))
	for _, cl := range repo.clients.table {
		clients = append(clients, *cl)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (repo *clientRepository) UpdateClient(ctx context.Context, cl client.Client) (client.Client, error) {
	repo.clients.Lock()
	defer repo.clients.Unlock()

	if _, ok := repo.clients.table[cl.ID]; !ok {
		return client.Client{}, client.ErrNotFound
	}
	repo.clients.table[cl.ID] = &cl
	return cl, nil
}

func (repo *clientRepository) DeleteClientsByID(ctx context.Context, ids ...string) error {
	repo.clients.Lock()
	defer repo.clients.Unlock()

	for _, id := range ids {
		delete(repo.clients.table, id)
	}
	return nil
}

func (repo *clientRepository) CreateCampaign(ctx context.Context, cp client.Campaign) (client.Campaign, error) {
	repo.campaigns.Lock()
	defer repo.campaigns.Unlock()

	repo.campaigns.table[cp.ID] = &cp
	return cp, nil
}

func (repo *clientRepository) GetCampaignByID(ctx context.Context, id string) (client.Campaign, error) {
	repo.campaigns.RLock()
	defer repo.campaigns.RUnlock()

	if cp, ok := repo.campaigns.table[id]; ok {
		return *cp, nil
	}
	return client.Campaign{}, client.ErrCampaignNotFound
}

func (repo *clientRepository) queryCampaigns() []client.Campaign {
	cps := make([]client.Campaign, 0, len(repo.campaigns.table))
	for _, cp := range repo.campaigns.table {
		cps = append(cps, *cp)
	}
	sort.Slice(cps, func(i, j int) bool { return cps[i].CreatedAt.After(cps[j].CreatedAt) })
	return cps
}

func (repo *clientRepository) QueryCampaignsByClient(ctx context.Context, clientID string) ([]client.Campaign, error) {
	repo.campaigns.RLock()
	defer repo.campaigns.RUnlock()

	var cps []client.Campaign
	for _, cp := range repo.queryCampaigns() {
		if cp.ClientID == clientID {
			cps = append(cps, cp)
		}
	}
	return cps, nil
}

func (repo *clientRepository) QueryAllCampaigns(ctx context.Context) ([]client.Campaign, error) {
	repo.campaigns.RLock()
	defer repo.campaigns.RUnlock()
	return repo.queryCampaigns(), nil
}

func (repo *clientRepository) UpdateCampaign(ctx context.Context, cp client.Campaign) (client.Campaign, error) {
	repo.campaigns.Lock()
	defer repo.campaigns.Unlock()

	if _, ok := repo.campaigns.table[cp.ID]; !ok {
		return client.Campaign{}, client.ErrCampaignNotFound
	}
	repo.campaigns.table[cp.ID] = &cp
	return cp, nil
}

func (repo *clientRepository) DeleteCampaignsByID(ctx context.Context, ids ...string) error {
	repo.campaigns.Lock()
	defer repo.campaigns.Unlock()

	for _, id := range ids {
		delete(repo.campaigns.table, id)
	}
	return nil
}
