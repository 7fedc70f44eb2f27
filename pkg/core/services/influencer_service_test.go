package services

import (
	"context"
	"errors"
	"testing"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

func TestAddInfluencer(t *testing.T) {
	repo := newTestStore(t)
	svc := NewInfluencerService(repo, nil, nopLogger)
	ctx := context.Background()

	inf, err := svc.AddInfluencer(ctx, domain.Influencer{
		Name:      "  Ana  ",
		Followers: 10000,
		Likes:     50000,
		Posts:     10,
	}, false)
	if err != nil {
		t.Fatalf("AddInfluencer failed: %v", err)
	}
	if inf.ID == "" {
		t.Error("expected generated id")
	}
	if inf.Name != "Ana" {
		t.Errorf("expected trimmed name, got %q", inf.Name)
	}
	// 50000 / 10 / 10000 * 100 = 50 -> reach 100
	if inf.Reach != 100 {
		t.Errorf("expected reach 100, got %v", inf.Reach)
	}
	if inf.Clicks == nil {
		t.Error("expected initialised click map")
	}

	list, _ := svc.ListInfluencers(ctx)
	if len(list) != 1 || list[0].ID != inf.ID {
		t.Errorf("expected stored influencer, got %+v", list)
	}
}

func TestAddInfluencerValidation(t *testing.T) {
	svc := NewInfluencerService(newTestStore(t), nil, nopLogger)
	negative := -1.0

	tests := []struct {
		name  string
		inf   domain.Influencer
		field string
	}{
		{"missing name", domain.Influencer{}, "name"},
		{"bad social url", domain.Influencer{Name: "x", Socials: domain.Socials{Instagram: "not a url"}}, "socials.instagram"},
		{"negative cost", domain.Influencer{Name: "x", TikTokCost: &negative}, "tiktokCost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddInfluencer(context.Background(), tt.inf, false)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}
}

func TestAddInfluencerFetchesProfiles(t *testing.T) {
	fetcher := &fakeFetcher{profiles: map[string]domain.ProfileMetrics{
		"https://instagram.com/ana": {Followers: 1000, Likes: 400, Posts: 4},
		"https://tiktok.com/@ana":   {Followers: 1000, Likes: 600, Posts: 6},
	}}
	svc := NewInfluencerService(newTestStore(t), fetcher, nopLogger)

	inf, err := svc.AddInfluencer(context.Background(), domain.Influencer{
		Name: "Ana",
		Socials: domain.Socials{
			Instagram: "https://instagram.com/ana",
			TikTok:    "https://tiktok.com/@ana",
			Facebook:  "https://facebook.com/unreachable",
		},
	}, true)
	if err != nil {
		t.Fatalf("AddInfluencer failed: %v", err)
	}
	if inf.Followers != 2000 || inf.Likes != 1000 || inf.Posts != 10 {
		t.Errorf("expected summed profiles, got %d/%d/%d", inf.Followers, inf.Likes, inf.Posts)
	}
	// 1000 / 10 / 2000 * 100 = 5 -> reach 10
	if inf.Reach != 10 {
		t.Errorf("expected reach 10, got %v", inf.Reach)
	}
}

func TestUpdateInfluencer(t *testing.T) {
	svc := NewInfluencerService(newTestStore(t), nil, nopLogger)
	ctx := context.Background()

	inf, _ := svc.AddInfluencer(ctx, domain.Influencer{Name: "Ana", Category: "travel"}, false)

	followers, likes, posts := int64(100), int64(50), int64(5)
	nick := "ani"
	updated, err := svc.UpdateInfluencer(ctx, inf.ID, domain.InfluencerPatch{
		Nickname:  &nick,
		Followers: &followers,
		Likes:     &likes,
		Posts:     &posts,
	})
	if err != nil {
		t.Fatalf("UpdateInfluencer failed: %v", err)
	}
	if updated.Nickname != "ani" || updated.Category != "travel" {
		t.Errorf("expected merged fields, got %+v", updated)
	}
	// 50 / 5 / 100 * 100 = 10 -> reach 20
	if updated.Reach != 20 {
		t.Errorf("expected recomputed reach 20, got %v", updated.Reach)
	}

	_, err = svc.UpdateInfluencer(ctx, "missing", domain.InfluencerPatch{Nickname: &nick})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRefreshProfile(t *testing.T) {
	fetcher := &fakeFetcher{profiles: map[string]domain.ProfileMetrics{
		"https://instagram.com/ana": {Followers: 500, Likes: 250, Posts: 5},
	}}
	repo := newTestStore(t)
	svc := NewInfluencerService(repo, fetcher, nopLogger)
	ctx := context.Background()

	inf, _ := svc.AddInfluencer(ctx, domain.Influencer{
		Name:    "Ana",
		Socials: domain.Socials{Instagram: "https://instagram.com/ana"},
	}, false)

	refreshed, err := svc.RefreshProfile(ctx, inf.ID)
	if err != nil {
		t.Fatalf("RefreshProfile failed: %v", err)
	}
	if refreshed.Followers != 500 || refreshed.Reach != 20 {
		t.Errorf("unexpected refresh result %+v", refreshed)
	}

	stored, _ := svc.GetInfluencer(ctx, inf.ID)
	if stored.Followers != 500 {
		t.Errorf("expected refresh persisted, got %d", stored.Followers)
	}

	t.Run("all profiles unreachable", func(t *testing.T) {
		other, _ := svc.AddInfluencer(ctx, domain.Influencer{
			Name:      "Bea",
			Followers: 7,
			Socials:   domain.Socials{TikTok: "https://tiktok.com/@bea"},
		}, false)
		_, err := svc.RefreshProfile(ctx, other.ID)
		if !errors.Is(err, domain.ErrMetricsUnavailable) {
			t.Fatalf("expected ErrMetricsUnavailable, got %v", err)
		}
		stored, _ := svc.GetInfluencer(ctx, other.ID)
		if stored.Followers != 7 {
			t.Errorf("expected record untouched, got %d", stored.Followers)
		}
	})

	t.Run("no socials", func(t *testing.T) {
		bare, _ := svc.AddInfluencer(ctx, domain.Influencer{Name: "Cel"}, false)
		_, err := svc.RefreshProfile(ctx, bare.ID)
		if !domain.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestRecordClick(t *testing.T) {
	svc := NewInfluencerService(newTestStore(t), nil, nopLogger)
	ctx := context.Background()
	inf, _ := svc.AddInfluencer(ctx, domain.Influencer{Name: "Ana"}, false)

	for range 2 {
		if _, err := svc.RecordClick(ctx, inf.ID, "instagram"); err != nil {
			t.Fatalf("RecordClick failed: %v", err)
		}
	}
	got, err := svc.RecordClick(ctx, inf.ID, "tiktok")
	if err != nil {
		t.Fatalf("RecordClick failed: %v", err)
	}
	if got.Clicks["instagram"] != 2 || got.Clicks["tiktok"] != 1 {
		t.Errorf("unexpected clicks %v", got.Clicks)
	}

	if _, err := svc.RecordClick(ctx, "missing", "instagram"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.RecordClick(ctx, inf.ID, "Bad Network!"); !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestClicksSurviveConcurrentUpdates(t *testing.T) {
	fetcher := &fakeFetcher{profiles: map[string]domain.ProfileMetrics{
		"https://instagram.com/ana": {Followers: 500, Likes: 250, Posts: 5},
	}}
	svc := NewInfluencerService(newTestStore(t), fetcher, nopLogger)
	ctx := context.Background()

	inf, _ := svc.AddInfluencer(ctx, domain.Influencer{
		Name:    "Ana",
		Socials: domain.Socials{Instagram: "https://instagram.com/ana"},
	}, false)
	for range 3 {
		if _, err := svc.RecordClick(ctx, inf.ID, "instagram"); err != nil {
			t.Fatalf("RecordClick failed: %v", err)
		}
	}

	t.Run("click during profile refresh", func(t *testing.T) {
		fetcher.onProfile = func() {
			if _, err := svc.RecordClick(ctx, inf.ID, "instagram"); err != nil {
				t.Errorf("RecordClick failed: %v", err)
			}
		}
		defer func() { fetcher.onProfile = nil }()

		refreshed, err := svc.RefreshProfile(ctx, inf.ID)
		if err != nil {
			t.Fatalf("RefreshProfile failed: %v", err)
		}
		if refreshed.Clicks["instagram"] != 4 {
			t.Errorf("expected 4 clicks in response, got %d", refreshed.Clicks["instagram"])
		}
		stored, _ := svc.GetInfluencer(ctx, inf.ID)
		if stored.Clicks["instagram"] != 4 {
			t.Errorf("expected 4 stored clicks, got %d", stored.Clicks["instagram"])
		}
	})

	t.Run("update without clicks keeps counters", func(t *testing.T) {
		nick := "ani"
		updated, err := svc.UpdateInfluencer(ctx, inf.ID, domain.InfluencerPatch{Nickname: &nick})
		if err != nil {
			t.Fatalf("UpdateInfluencer failed: %v", err)
		}
		if updated.Clicks["instagram"] != 4 {
			t.Errorf("expected 4 clicks, got %d", updated.Clicks["instagram"])
		}
	})

	t.Run("patched counter is written", func(t *testing.T) {
		updated, err := svc.UpdateInfluencer(ctx, inf.ID, domain.InfluencerPatch{Clicks: map[string]int64{"tiktok": 9}})
		if err != nil {
			t.Fatalf("UpdateInfluencer failed: %v", err)
		}
		if updated.Clicks["tiktok"] != 9 || updated.Clicks["instagram"] != 4 {
			t.Errorf("unexpected clicks %v", updated.Clicks)
		}
	})
}
