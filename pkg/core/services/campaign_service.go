package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/logging"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

type CampaignService struct {
	repo ports.Store
	log  zerolog.Logger
}

func NewCampaignService(repo ports.Store, log zerolog.Logger) *CampaignService {
	return &CampaignService{
		repo: repo,
		log:  logging.Component(log, "campaigns"),
	}
}

func (s *CampaignService) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx)
}

func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return findCampaign(ctx, s.repo, id)
}

func findCampaign(ctx context.Context, repo ports.CampaignRepository, id string) (*domain.Campaign, error) {
	c, err := repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (s *CampaignService) CreateCampaign(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if err := validateCampaign(&c); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.InfluencerIDs = domain.UnionIDs(nil, c.InfluencerIDs)

	if err := s.repo.CreateCampaign(ctx, &c); err != nil {
		return nil, err
	}
	c.Normalize()
	s.log.Info().Str(logging.ID, c.ID).Str("name", c.Name).Msg("campaign created")
	return &c, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	c, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := validateCampaign(c); err != nil {
		return nil, err
	}
	c.InfluencerIDs = domain.UnionIDs(nil, c.InfluencerIDs)

	if err := s.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddInfluencers appends ids that are not members yet, keeping order
func (s *CampaignService) AddInfluencers(ctx context.Context, campaignID string, influencerIDs []string) (*domain.Campaign, error) {
	c, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	c.InfluencerIDs = domain.UnionIDs(c.InfluencerIDs, influencerIDs)
	if err := s.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Influencers resolves the member ids in campaign order. Ids without a
// directory entry are skipped.
func (s *CampaignService) Influencers(ctx context.Context, campaignID string) ([]domain.Influencer, error) {
	c, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.ListInfluencers(ctx)
	if err != nil {
		return nil, err
	}
	return resolveMembers(c, all), nil
}

func resolveMembers(c *domain.Campaign, all []domain.Influencer) []domain.Influencer {
	byID := make(map[string]domain.Influencer, len(all))
	for _, inf := range all {
		byID[inf.ID] = inf
	}
	members := make([]domain.Influencer, 0, len(c.InfluencerIDs))
	for _, id := range c.InfluencerIDs {
		if inf, ok := byID[id]; ok {
			members = append(members, inf)
		}
	}
	return members
}
