package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/repository/jsonfile"
	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

func newTestStore(t *testing.T) *jsonfile.JSONRepository {
	t.Helper()
	repo, err := jsonfile.NewJSONRepository(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	return repo
}

// fakeFetcher answers from fixed tables. URLs missing from the tables fail.
type fakeFetcher struct {
	mu       sync.Mutex
	posts    map[string]domain.PublicationMetrics
	profiles map[string]domain.ProfileMetrics
	delay    time.Duration

	// onProfile runs before each profile lookup is answered
	onProfile func()

	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeFetcher) FetchPublication(ctx context.Context, url string) (*domain.PublicationMetrics, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.posts[url]
	if !ok {
		return nil, fmt.Errorf("%w: no data for %s", domain.ErrMetricsUnavailable, url)
	}
	return &m, nil
}

func (f *fakeFetcher) FetchProfile(ctx context.Context, url string) (*domain.ProfileMetrics, error) {
	f.calls.Add(1)
	if f.onProfile != nil {
		f.onProfile()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.profiles[url]
	if !ok {
		return nil, fmt.Errorf("%w: no data for %s", domain.ErrMetricsUnavailable, url)
	}
	return &m, nil
}

var nopLogger = zerolog.Nop()

// flakyStore fails every publication insert after the first okCreates
type flakyStore struct {
	*jsonfile.JSONRepository
	okCreates int
	created   int
}

func (s *flakyStore) CreatePublication(ctx context.Context, p *domain.Publication) error {
	if s.created >= s.okCreates {
		return fmt.Errorf("%w: disk full", domain.ErrStore)
	}
	s.created++
	return s.JSONRepository.CreatePublication(ctx, p)
}
