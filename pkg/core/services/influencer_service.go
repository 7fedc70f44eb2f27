package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/logging"
	"github.com/wadjakorntonsri/metrikenos/pkg/metrics"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

type InfluencerService struct {
	repo    ports.Store
	fetcher ports.MetricsFetcher
	log     zerolog.Logger
}

func NewInfluencerService(repo ports.Store, fetcher ports.MetricsFetcher, log zerolog.Logger) *InfluencerService {
	if fetcher == nil {
		fetcher = unavailableFetcher{}
	}
	return &InfluencerService{
		repo:    repo,
		fetcher: fetcher,
		log:     logging.Component(log, "influencers"),
	}
}

func (s *InfluencerService) ListInfluencers(ctx context.Context) ([]domain.Influencer, error) {
	return s.repo.ListInfluencers(ctx)
}

func (s *InfluencerService) GetInfluencer(ctx context.Context, id string) (*domain.Influencer, error) {
	inf, err := s.repo.GetInfluencer(ctx, id)
	if err != nil {
		return nil, err
	}
	if inf == nil {
		return nil, fmt.Errorf("influencer %s: %w", id, domain.ErrNotFound)
	}
	return inf, nil
}

// AddInfluencer validates and stores a new directory entry. With fetchMetrics
// the social profiles are queried first; unreachable profiles are skipped.
func (s *InfluencerService) AddInfluencer(ctx context.Context, inf domain.Influencer, fetchMetrics bool) (*domain.Influencer, error) {
	inf.Name = strings.TrimSpace(inf.Name)
	if err := validateInfluencer(&inf); err != nil {
		return nil, err
	}

	if inf.ID == "" {
		inf.ID = uuid.NewString()
	}
	if inf.ImageURL == "" {
		inf.ImageURL = "https://picsum.photos/seed/" + inf.ID + "/200/200"
	}
	inf.Clicks = nil

	if fetchMetrics {
		if _, err := s.applyProfiles(ctx, &inf); err != nil {
			s.log.Warn().Err(err).Str("name", inf.Name).Msg("profile metrics unavailable, keeping submitted counters")
		}
	}
	_, inf.Reach = domain.EstimateReach(inf.Followers, inf.Likes, inf.Posts)

	if err := s.repo.CreateInfluencer(ctx, &inf); err != nil {
		return nil, err
	}
	inf.Normalize()
	return &inf, nil
}

func (s *InfluencerService) UpdateInfluencer(ctx context.Context, id string, patch domain.InfluencerPatch) (*domain.Influencer, error) {
	inf, err := s.GetInfluencer(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(inf)
	if err := validateInfluencer(inf); err != nil {
		return nil, err
	}
	countersChanged := patch.Followers != nil || patch.Likes != nil || patch.Posts != nil
	if countersChanged && patch.Reach == nil {
		_, inf.Reach = domain.EstimateReach(inf.Followers, inf.Likes, inf.Posts)
	}

	if err := s.repo.UpdateInfluencer(ctx, inf, patch.Clicks); err != nil {
		return nil, err
	}
	return inf, nil
}

// RefreshProfile replaces the counters with the sum of every profile the
// metrics service could read. The record is untouched if none could.
func (s *InfluencerService) RefreshProfile(ctx context.Context, id string) (*domain.Influencer, error) {
	inf, err := s.GetInfluencer(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.applyProfiles(ctx, inf); err != nil {
		return nil, err
	}
	_, inf.Reach = domain.EstimateReach(inf.Followers, inf.Likes, inf.Posts)

	// counters recorded while the profiles were fetched survive the write
	if err := s.repo.UpdateInfluencer(ctx, inf, nil); err != nil {
		return nil, err
	}
	return inf, nil
}

// applyProfiles fetches each configured social profile one at a time and
// stores the summed counters on inf. It returns how many profiles answered.
func (s *InfluencerService) applyProfiles(ctx context.Context, inf *domain.Influencer) (int, error) {
	var total domain.ProfileMetrics
	fetched, attempted := 0, 0
	var lastErr error

	for _, network := range domain.Networks {
		profileURL := inf.Socials.URL(network)
		if profileURL == "" {
			continue
		}
		attempted++
		m, err := s.fetcher.FetchProfile(ctx, profileURL)
		if err != nil {
			lastErr = err
			s.log.Warn().Err(err).Str(logging.NETWORK, network).Str(logging.URL, profileURL).Msg("profile fetch failed")
			continue
		}
		total.Followers += m.Followers
		total.Likes += m.Likes
		total.Posts += m.Posts
		fetched++
	}

	if attempted == 0 {
		return 0, domain.Invalid("socials", "no social profile URL to fetch")
	}
	if fetched == 0 {
		return 0, lastErr
	}
	inf.Followers, inf.Likes, inf.Posts = total.Followers, total.Likes, total.Posts
	return fetched, nil
}

// RecordClick bumps the download counter of one network
func (s *InfluencerService) RecordClick(ctx context.Context, id, network string) (*domain.Influencer, error) {
	if err := validNetwork(network); err != nil {
		return nil, err
	}

	inf, err := s.repo.IncrementClick(ctx, id, network)
	if err == nil && inf == nil {
		err = fmt.Errorf("influencer %s: %w", id, domain.ErrNotFound)
	}
	metrics.RecordClick(network, err)
	if err != nil {
		return nil, err
	}
	return inf, nil
}
