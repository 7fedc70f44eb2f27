package jsonfile

import (
	"context"
	"fmt"
	"os"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

// File names inside the data directory
const (
	InfluencersFile  = "influencers.json"
	CampaignsFile    = "campaigns.json"
	PublicationsFile = "publications.json"
)

// JSONRepository keeps the three collections as flat JSON files
type JSONRepository struct {
	dir          string
	influencers  *collection[domain.Influencer]
	campaigns    *collection[domain.Campaign]
	publications *collection[domain.Publication]
}

// NewJSONRepository opens (and creates if needed) the data directory
func NewJSONRepository(dir string) (*JSONRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &JSONRepository{
		dir:          dir,
		influencers:  newCollection[domain.Influencer](dir, InfluencersFile),
		campaigns:    newCollection[domain.Campaign](dir, CampaignsFile),
		publications: newCollection[domain.Publication](dir, PublicationsFile),
	}, nil
}

// Dir returns the data directory
func (r *JSONRepository) Dir() string {
	return r.dir
}

func (r *JSONRepository) Close() error {
	return nil
}

// --- Influencers ---

func (r *JSONRepository) ListInfluencers(ctx context.Context) ([]domain.Influencer, error) {
	items, err := r.influencers.list()
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

func (r *JSONRepository) GetInfluencer(ctx context.Context, id string) (*domain.Influencer, error) {
	inf, err := r.influencers.find(func(i *domain.Influencer) bool { return i.ID == id })
	if inf != nil {
		inf.Normalize()
	}
	return inf, err
}

func (r *JSONRepository) CreateInfluencer(ctx context.Context, influencer *domain.Influencer) error {
	return r.influencers.prepend(*influencer)
}

func (r *JSONRepository) UpdateInfluencer(ctx context.Context, influencer *domain.Influencer, clicks map[string]int64) error {
	updated, err := r.influencers.modify(
		func(i *domain.Influencer) bool { return i.ID == influencer.ID },
		func(i *domain.Influencer) {
			stored := i.Clicks
			*i = *influencer
			i.Clicks = stored
			if len(clicks) == 0 {
				return
			}
			if i.Clicks == nil {
				i.Clicks = make(map[string]int64, len(clicks))
			}
			for network, n := range clicks {
				i.Clicks[network] = n
			}
		},
	)
	if err != nil {
		return err
	}
	if updated == nil {
		return domain.ErrNotFound
	}
	updated.Normalize()
	influencer.Clicks = updated.Clicks
	return nil
}

func (r *JSONRepository) IncrementClick(ctx context.Context, id, network string) (*domain.Influencer, error) {
	inf, err := r.influencers.modify(
		func(i *domain.Influencer) bool { return i.ID == id },
		func(i *domain.Influencer) {
			if i.Clicks == nil {
				i.Clicks = map[string]int64{}
			}
			i.Clicks[network]++
		},
	)
	if inf != nil {
		inf.Normalize()
	}
	return inf, err
}

// --- Campaigns ---

func (r *JSONRepository) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	items, err := r.campaigns.list()
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

func (r *JSONRepository) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := r.campaigns.find(func(c *domain.Campaign) bool { return c.ID == id })
	if c != nil {
		c.Normalize()
	}
	return c, err
}

func (r *JSONRepository) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	campaign.Normalize()
	return r.campaigns.prepend(*campaign)
}

func (r *JSONRepository) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	campaign.Normalize()
	updated, err := r.campaigns.modify(
		func(c *domain.Campaign) bool { return c.ID == campaign.ID },
		func(c *domain.Campaign) { *c = *campaign },
	)
	if err != nil {
		return err
	}
	if updated == nil {
		return domain.ErrNotFound
	}
	return nil
}

// --- Publications ---

func (r *JSONRepository) ListPublications(ctx context.Context) ([]domain.Publication, error) {
	return r.publications.list()
}

func (r *JSONRepository) GetPublication(ctx context.Context, id string) (*domain.Publication, error) {
	return r.publications.find(func(p *domain.Publication) bool { return p.ID == id })
}

func (r *JSONRepository) CreatePublication(ctx context.Context, publication *domain.Publication) error {
	return r.publications.prepend(*publication)
}

func (r *JSONRepository) UpdatePublication(ctx context.Context, publication *domain.Publication) error {
	updated, err := r.publications.modify(
		func(p *domain.Publication) bool { return p.ID == publication.ID },
		func(p *domain.Publication) { *p = *publication },
	)
	if err != nil {
		return err
	}
	if updated == nil {
		return domain.ErrNotFound
	}
	return nil
}

// --- Migration ---

// Restore overwrites all three collections
func (r *JSONRepository) Restore(ctx context.Context, snap domain.Snapshot) error {
	if err := r.influencers.replaceAll(nonNil(snap.Influencers)); err != nil {
		return err
	}
	if err := r.campaigns.replaceAll(nonNil(snap.Campaigns)); err != nil {
		return err
	}
	return r.publications.replaceAll(nonNil(snap.Publications))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Ensure interface compliance
var _ ports.Store = (*JSONRepository)(nil)
