package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/logging"
	"github.com/wadjakorntonsri/metrikenos/pkg/metrics"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

// Refresher re-fetches engagement for many publications with at most
// concurrency requests in flight. Successful items are persisted.
type Refresher struct {
	fetcher     ports.MetricsFetcher
	repo        ports.PublicationRepository
	concurrency int
	log         zerolog.Logger
	now         func() time.Time
}

func NewRefresher(fetcher ports.MetricsFetcher, repo ports.PublicationRepository, concurrency int, log zerolog.Logger) *Refresher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Refresher{
		fetcher:     fetcher,
		repo:        repo,
		concurrency: concurrency,
		log:         logging.Component(log, "refresher"),
		now:         time.Now,
	}
}

// Refresh never aborts on a single failure; Items follows the order of pubs
func (r *Refresher) Refresh(ctx context.Context, pubs []domain.Publication) *domain.BatchResult {
	items := make([]domain.RefreshOutcome, len(pubs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, pub := range pubs {
		g.Go(func() error {
			items[i] = r.refreshOne(ctx, pub)
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.BatchResult{Total: len(pubs), Items: items}
	for _, item := range items {
		if item.OK() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	r.log.Info().Int("total", result.Total).Int("succeeded", result.Succeeded).Int("failed", result.Failed).Msg("batch refresh finished")
	return result
}

func (r *Refresher) refreshOne(ctx context.Context, pub domain.Publication) domain.RefreshOutcome {
	m, err := r.fetcher.FetchPublication(ctx, pub.URL)
	if err != nil {
		metrics.RecordRefresh(err)
		r.log.Warn().Err(err).Str(logging.ID, pub.ID).Str(logging.URL, pub.URL).Msg("publication refresh failed")
		return domain.RefreshOutcome{Publication: pub, Error: err.Error()}
	}

	updated := pub
	updated.ApplyMetrics(*m, r.now().UTC())
	if r.repo != nil {
		if err := r.repo.UpdatePublication(ctx, &updated); err != nil {
			metrics.RecordRefresh(err)
			r.log.Error().Err(err).Str(logging.ID, pub.ID).Msg("persist refreshed publication")
			return domain.RefreshOutcome{Publication: pub, Error: err.Error()}
		}
	}
	metrics.RecordRefresh(nil)
	return domain.RefreshOutcome{Publication: updated}
}
