package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/logging"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

type PublicationService struct {
	repo      ports.Store
	fetcher   ports.MetricsFetcher
	refresher *Refresher
	log       zerolog.Logger
	now       func() time.Time
}

// NewPublicationService wires the publication operations. fetcher may be nil,
// in which case every metrics fetch fails with ErrMetricsUnavailable.
func NewPublicationService(repo ports.Store, fetcher ports.MetricsFetcher, concurrency int, log zerolog.Logger) *PublicationService {
	if fetcher == nil {
		fetcher = unavailableFetcher{}
	}
	return &PublicationService{
		repo:      repo,
		fetcher:   fetcher,
		refresher: NewRefresher(fetcher, repo, concurrency, log),
		log:       logging.Component(log, "publications"),
		now:       time.Now,
	}
}

func (s *PublicationService) ListPublications(ctx context.Context) ([]domain.Publication, error) {
	return s.repo.ListPublications(ctx)
}

func (s *PublicationService) ByCampaignAndInfluencer(ctx context.Context, campaignID, influencerID string) ([]domain.Publication, error) {
	all, err := s.repo.ListPublications(ctx)
	if err != nil {
		return nil, err
	}
	return filterPublications(all, campaignID, influencerID), nil
}

func filterPublications(all []domain.Publication, campaignID, influencerID string) []domain.Publication {
	out := make([]domain.Publication, 0)
	for _, p := range all {
		if p.CampaignID == campaignID && p.InfluencerID == influencerID {
			out = append(out, p)
		}
	}
	return out
}

// AddPublication stores a new publication. With fetchMetrics the engagement
// is read first and a failed fetch aborts the creation.
func (s *PublicationService) AddPublication(ctx context.Context, pub domain.Publication, fetchMetrics bool) (*domain.Publication, error) {
	pub.URL = strings.TrimSpace(pub.URL)
	if err := validatePublication(&pub); err != nil {
		return nil, err
	}
	if pub.ID == "" {
		pub.ID = uuid.NewString()
	}
	pub.RefreshedAt = nil

	if fetchMetrics {
		m, err := s.fetcher.FetchPublication(ctx, pub.URL)
		if err != nil {
			return nil, err
		}
		pub.ApplyMetrics(*m, s.now().UTC())
	}

	if err := s.repo.CreatePublication(ctx, &pub); err != nil {
		return nil, err
	}
	return &pub, nil
}

func (s *PublicationService) UpdatePublication(ctx context.Context, id string, patch domain.PublicationPatch) (*domain.Publication, error) {
	pub, err := s.getPublication(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(pub)
	pub.URL = strings.TrimSpace(pub.URL)
	if err := validatePublication(pub); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePublication(ctx, pub); err != nil {
		return nil, err
	}
	return pub, nil
}

// RefreshPublication re-reads one publication. On failure the stored record
// keeps its previous values.
func (s *PublicationService) RefreshPublication(ctx context.Context, id string) (*domain.Publication, error) {
	pub, err := s.getPublication(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.fetcher.FetchPublication(ctx, pub.URL)
	if err != nil {
		return nil, err
	}
	pub.ApplyMetrics(*m, s.now().UTC())
	if err := s.repo.UpdatePublication(ctx, pub); err != nil {
		return nil, err
	}
	return pub, nil
}

func (s *PublicationService) RefreshCampaignInfluencer(ctx context.Context, campaignID, influencerID string) (*domain.BatchResult, error) {
	pubs, err := s.ByCampaignAndInfluencer(ctx, campaignID, influencerID)
	if err != nil {
		return nil, err
	}
	return s.refresher.Refresh(ctx, pubs), nil
}

// Import creates one publication per valid row. Invalid rows are rejected
// individually; with fetchMetrics the created publications are refreshed
// and fetch failures keep zero metrics.
func (s *PublicationService) Import(ctx context.Context, campaignID, influencerID string, rows []domain.ImportRow, fetchMetrics bool) (*domain.ImportResult, error) {
	if campaignID == "" {
		return nil, domain.Invalid("campaignId", "is required")
	}
	if influencerID == "" {
		return nil, domain.Invalid("influencerId", "is required")
	}

	result := &domain.ImportResult{
		Created:      make([]domain.Publication, 0, len(rows)),
		Rejected:     make([]domain.RowError, 0),
		MetricsFetch: fetchMetrics,
	}
	lines := make([]domain.ImportRow, 0, len(rows))

	for _, row := range rows {
		pub := domain.Publication{
			ID:           uuid.NewString(),
			URL:          strings.TrimSpace(row.URL),
			CampaignID:   campaignID,
			InfluencerID: influencerID,
		}
		if err := validatePublication(&pub); err != nil {
			result.Rejected = append(result.Rejected, domain.RowError{Line: row.Line, URL: row.URL, Message: err.Error()})
			continue
		}
		if err := s.repo.CreatePublication(ctx, &pub); err != nil {
			s.log.Error().Err(err).
				Int("line", row.Line).
				Int("created", len(result.Created)).
				Msg("import aborted, earlier rows stay stored")
			return result, fmt.Errorf("import line %d: %w", row.Line, err)
		}
		result.Created = append(result.Created, pub)
		lines = append(lines, row)
	}

	if fetchMetrics && len(result.Created) > 0 {
		batch := s.refresher.Refresh(ctx, result.Created)
		result.Created = batch.Publications()
		for i, item := range batch.Items {
			if !item.OK() {
				result.FetchFailed = append(result.FetchFailed, domain.RowError{
					Line:    lines[i].Line,
					URL:     item.Publication.URL,
					Message: item.Error,
				})
			}
		}
	}

	s.log.Info().
		Str("campaign", campaignID).
		Str("influencer", influencerID).
		Int("created", len(result.Created)).
		Int("rejected", len(result.Rejected)).
		Int("fetchFailed", len(result.FetchFailed)).
		Msg("publications imported")
	return result, nil
}

func (s *PublicationService) getPublication(ctx context.Context, id string) (*domain.Publication, error) {
	pub, err := s.repo.GetPublication(ctx, id)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, fmt.Errorf("publication %s: %w", id, domain.ErrNotFound)
	}
	return pub, nil
}

type unavailableFetcher struct{}

func (unavailableFetcher) FetchPublication(context.Context, string) (*domain.PublicationMetrics, error) {
	return nil, fmt.Errorf("%w: no metrics backend configured", domain.ErrMetricsUnavailable)
}

func (unavailableFetcher) FetchProfile(context.Context, string) (*domain.ProfileMetrics, error) {
	return nil, fmt.Errorf("%w: no metrics backend configured", domain.ErrMetricsUnavailable)
}
