package metricsapi

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

// Simulator fabricates plausible metrics when no backend is available
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulator returns a simulator. A zero seed picks a random one.
func NewSimulator(seed uint64) *Simulator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Simulator{rnd: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (s *Simulator) FetchPublication(ctx context.Context, url string) (*domain.PublicationMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.PublicationMetrics{
		Likes:    s.rnd.Int64N(50000),
		Comments: s.rnd.Int64N(2000),
		Shares:   s.rnd.Int64N(1000),
	}, nil
}

func (s *Simulator) FetchProfile(ctx context.Context, url string) (*domain.ProfileMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.ProfileMetrics{
		Followers: s.rnd.Int64N(1000000),
		Likes:     s.rnd.Int64N(5000000),
		Posts:     s.rnd.Int64N(500),
	}, nil
}

var _ ports.MetricsFetcher = (*Simulator)(nil)
