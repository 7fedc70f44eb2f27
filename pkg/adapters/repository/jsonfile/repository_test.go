package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

func newTestRepo(t *testing.T) *JSONRepository {
	t.Helper()
	repo, err := NewJSONRepository(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	return repo
}

func TestMissingFilesAreEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	influencers, err := repo.ListInfluencers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if influencers == nil || len(influencers) != 0 {
		t.Errorf("expected empty non-nil list, got %v", influencers)
	}

	inf, err := repo.GetInfluencer(ctx, "missing")
	if err != nil || inf != nil {
		t.Errorf("expected (nil, nil) for unknown id, got (%v, %v)", inf, err)
	}
}

func TestCreatePrependsAndPersistsPrettyJSON(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		if err := repo.CreatePublication(ctx, &domain.Publication{ID: id, URL: "https://example.com/" + id}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	pubs, err := repo.ListPublications(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pubs) != 2 || pubs[0].ID != "2" || pubs[1].ID != "1" {
		t.Errorf("expected newest first, got %+v", pubs)
	}

	raw, err := os.ReadFile(filepath.Join(repo.Dir(), PublicationsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  {") {
		t.Errorf("expected pretty-printed JSON, got %s", raw)
	}
}

func TestCorruptFileIsStoreError(t *testing.T) {
	repo := newTestRepo(t)
	path := filepath.Join(repo.Dir(), CampaignsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := repo.ListCampaigns(context.Background())
	if !errors.Is(err, domain.ErrStore) {
		t.Errorf("expected ErrStore, got %v", err)
	}
}

func TestUpdateUnknownIsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.UpdateCampaign(context.Background(), &domain.Campaign{ID: "nope", Name: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIncrementClick(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.CreateInfluencer(ctx, &domain.Influencer{ID: "inf-1", Name: "Ana"}); err != nil {
		t.Fatal(err)
	}

	for i := int64(1); i <= 3; i++ {
		inf, err := repo.IncrementClick(ctx, "inf-1", domain.NetworkInstagram)
		if err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		if inf.Clicks[domain.NetworkInstagram] != i {
			t.Errorf("expected %d clicks, got %d", i, inf.Clicks[domain.NetworkInstagram])
		}
	}

	inf, err := repo.IncrementClick(ctx, "ghost", domain.NetworkInstagram)
	if err != nil || inf != nil {
		t.Errorf("expected (nil, nil) for unknown influencer, got (%v, %v)", inf, err)
	}

	all, _ := repo.ListInfluencers(ctx)
	if len(all) != 1 {
		t.Errorf("unknown influencer must not change the store, got %d records", len(all))
	}
}

func TestConcurrentIncrementsDoNotLoseUpdates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.CreateInfluencer(ctx, &domain.Influencer{ID: "inf-1", Name: "Ana"}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementClick(ctx, "inf-1", domain.NetworkTikTok); err != nil {
				t.Errorf("increment failed: %v", err)
			}
		}()
	}
	wg.Wait()

	inf, _ := repo.GetInfluencer(ctx, "inf-1")
	if inf.Clicks[domain.NetworkTikTok] != 20 {
		t.Errorf("expected 20 clicks, got %d", inf.Clicks[domain.NetworkTikTok])
	}
}

func TestRestore(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	snap := domain.Snapshot{
		Influencers: []domain.Influencer{{ID: "i1", Name: "Ana"}},
		Campaigns:   []domain.Campaign{{ID: "c1", Name: "Launch", InfluencerIDs: []string{"i1"}}},
	}
	if err := repo.Restore(ctx, snap); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	c, err := repo.GetCampaign(ctx, "c1")
	if err != nil || c == nil {
		t.Fatalf("campaign not restored: %v", err)
	}
	if c.Socials == nil {
		t.Error("expected normalised socials slice")
	}
	pubs, err := repo.ListPublications(ctx)
	if err != nil || len(pubs) != 0 {
		t.Errorf("expected empty publications, got %v (%v)", pubs, err)
	}
}

func TestUpdateInfluencerKeepsRecordedClicks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.CreateInfluencer(ctx, &domain.Influencer{ID: "inf-1", Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.IncrementClick(ctx, "inf-1", domain.NetworkInstagram); err != nil {
		t.Fatal(err)
	}

	stale, _ := repo.GetInfluencer(ctx, "inf-1")
	if _, err := repo.IncrementClick(ctx, "inf-1", domain.NetworkInstagram); err != nil {
		t.Fatal(err)
	}

	stale.Nickname = "ani"
	if err := repo.UpdateInfluencer(ctx, stale, nil); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if stale.Clicks[domain.NetworkInstagram] != 2 {
		t.Errorf("expected reloaded clicks 2, got %d", stale.Clicks[domain.NetworkInstagram])
	}

	got, _ := repo.GetInfluencer(ctx, "inf-1")
	if got.Nickname != "ani" || got.Clicks[domain.NetworkInstagram] != 2 {
		t.Errorf("unexpected stored record %+v", got)
	}

	err := repo.UpdateInfluencer(ctx, got, map[string]int64{domain.NetworkTikTok: 5, domain.NetworkInstagram: 7})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, _ = repo.GetInfluencer(ctx, "inf-1")
	if got.Clicks[domain.NetworkTikTok] != 5 || got.Clicks[domain.NetworkInstagram] != 7 {
		t.Errorf("patched clicks not written: %v", got.Clicks)
	}

	if err := repo.UpdateInfluencer(ctx, &domain.Influencer{ID: "ghost"}, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
