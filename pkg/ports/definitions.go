package ports

import (
	"context"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

// InfluencerRepository defines storage operations for influencers.
// Get returns (nil, nil) when the id is unknown; Update returns
// domain.ErrNotFound. Other failures wrap domain.ErrStore.
type InfluencerRepository interface {
	ListInfluencers(ctx context.Context) ([]domain.Influencer, error)
	GetInfluencer(ctx context.Context, id string) (*domain.Influencer, error)
	CreateInfluencer(ctx context.Context, influencer *domain.Influencer) error // Prepends
	// UpdateInfluencer writes every field except the click counters, which
	// belong to IncrementClick. Entries in clicks overwrite the stored counter
	// of that network. influencer.Clicks is reloaded from the store.
	UpdateInfluencer(ctx context.Context, influencer *domain.Influencer, clicks map[string]int64) error
	// IncrementClick bumps the per-network counter and returns the updated record,
	// or (nil, nil) if the influencer does not exist
	IncrementClick(ctx context.Context, id, network string) (*domain.Influencer, error)
}

// CampaignRepository defines storage operations for campaigns
type CampaignRepository interface {
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) error
	UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error
}

// PublicationRepository defines storage operations for publications
type PublicationRepository interface {
	ListPublications(ctx context.Context) ([]domain.Publication, error)
	GetPublication(ctx context.Context, id string) (*domain.Publication, error)
	CreatePublication(ctx context.Context, publication *domain.Publication) error
	UpdatePublication(ctx context.Context, publication *domain.Publication) error
}

// Store bundles the three collections
type Store interface {
	InfluencerRepository
	CampaignRepository
	PublicationRepository
	// Restore replaces every collection, used by the import command
	Restore(ctx context.Context, snap domain.Snapshot) error
	Close() error
}

// MetricsFetcher talks to the external metrics-scraping backend
type MetricsFetcher interface {
	FetchPublication(ctx context.Context, url string) (*domain.PublicationMetrics, error)
	FetchProfile(ctx context.Context, url string) (*domain.ProfileMetrics, error)
}

// InfluencerService defines the directory operations
type InfluencerService interface {
	ListInfluencers(ctx context.Context) ([]domain.Influencer, error)
	GetInfluencer(ctx context.Context, id string) (*domain.Influencer, error)
	AddInfluencer(ctx context.Context, influencer domain.Influencer, fetchMetrics bool) (*domain.Influencer, error)
	UpdateInfluencer(ctx context.Context, id string, patch domain.InfluencerPatch) (*domain.Influencer, error)
	RefreshProfile(ctx context.Context, id string) (*domain.Influencer, error)
	RecordClick(ctx context.Context, id, network string) (*domain.Influencer, error)
}

// CampaignService defines the campaign operations
type CampaignService interface {
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	CreateCampaign(ctx context.Context, campaign domain.Campaign) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, patch domain.CampaignPatch) (*domain.Campaign, error)
	AddInfluencers(ctx context.Context, campaignID string, influencerIDs []string) (*domain.Campaign, error)
	Influencers(ctx context.Context, campaignID string) ([]domain.Influencer, error)
}

// PublicationService defines the publication operations
type PublicationService interface {
	ListPublications(ctx context.Context) ([]domain.Publication, error)
	ByCampaignAndInfluencer(ctx context.Context, campaignID, influencerID string) ([]domain.Publication, error)
	AddPublication(ctx context.Context, publication domain.Publication, fetchMetrics bool) (*domain.Publication, error)
	UpdatePublication(ctx context.Context, id string, patch domain.PublicationPatch) (*domain.Publication, error)
	RefreshPublication(ctx context.Context, id string) (*domain.Publication, error)
	RefreshCampaignInfluencer(ctx context.Context, campaignID, influencerID string) (*domain.BatchResult, error)
	Import(ctx context.Context, campaignID, influencerID string, urls []domain.ImportRow, fetchMetrics bool) (*domain.ImportResult, error)
}

// StatsService defines the read-only aggregation operations
type StatsService interface {
	InfluencerCampaignStats(ctx context.Context, influencerID, campaignID string) (*domain.EngagementTotals, error)
	CampaignReport(ctx context.Context, campaignID string) (*domain.CampaignReport, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}
