package services

import (
	"context"
	"math"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

// StatsService computes aggregates on every call, nothing is cached
type StatsService struct {
	repo ports.Store
}

func NewStatsService(repo ports.Store) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) InfluencerCampaignStats(ctx context.Context, influencerID, campaignID string) (*domain.EngagementTotals, error) {
	pubs, err := s.repo.ListPublications(ctx)
	if err != nil {
		return nil, err
	}
	var totals domain.EngagementTotals
	for _, p := range filterPublications(pubs, campaignID, influencerID) {
		totals.Add(p)
	}
	return &totals, nil
}

func (s *StatsService) CampaignReport(ctx context.Context, campaignID string) (*domain.CampaignReport, error) {
	c, err := findCampaign(ctx, s.repo, campaignID)
	if err != nil {
		return nil, err
	}
	infs, err := s.repo.ListInfluencers(ctx)
	if err != nil {
		return nil, err
	}
	pubs, err := s.repo.ListPublications(ctx)
	if err != nil {
		return nil, err
	}

	perInfluencer := make(map[string]*domain.EngagementTotals)
	for _, p := range pubs {
		if p.CampaignID != campaignID {
			continue
		}
		t, ok := perInfluencer[p.InfluencerID]
		if !ok {
			t = &domain.EngagementTotals{}
			perInfluencer[p.InfluencerID] = t
		}
		t.Add(p)
	}

	report := &domain.CampaignReport{Campaign: *c, Rows: make([]domain.InfluencerReportRow, 0)}
	for _, inf := range resolveMembers(c, infs) {
		row := domain.InfluencerReportRow{Influencer: inf}
		if t, ok := perInfluencer[inf.ID]; ok {
			row.Stats = *t
		}
		report.Totals.Likes += row.Stats.Likes
		report.Totals.Comments += row.Stats.Comments
		report.Totals.Shares += row.Stats.Shares
		report.Totals.Publications += row.Stats.Publications
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (s *StatsService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	infs, err := s.repo.ListInfluencers(ctx)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.repo.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	pubs, err := s.repo.ListPublications(ctx)
	if err != nil {
		return nil, err
	}

	d := &domain.Dashboard{
		Influencers:  len(infs),
		Campaigns:    len(campaigns),
		Publications: len(pubs),
		ByPlatform:   make(map[string]domain.EngagementTotals),
	}
	for _, p := range pubs {
		d.Engagement.Add(p)
		t := d.ByPlatform[p.Platform()]
		t.Add(p)
		d.ByPlatform[p.Platform()] = t
	}
	if len(infs) > 0 {
		var sum float64
		for _, inf := range infs {
			sum += inf.Reach
		}
		d.AverageReach = math.Round(sum/float64(len(infs))*10) / 10
	}
	return d, nil
}
