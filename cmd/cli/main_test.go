package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/app"
	"github.com/wadjakorntonsri/metrikenos/pkg/config"
	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Store.Driver = "json"
	cfg.Store.DataDir = t.TempDir()
	cfg.Metrics.Mode = "simulate"
	cfg.Refresh.Concurrency = 2

	a, err := app.New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to init app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestApp(t)
	if _, err := src.Influencers.AddInfluencer(ctx, domain.Influencer{Name: "Ana"}, false); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Publications.AddPublication(ctx, domain.Publication{
		URL: "https://instagram.com/p/1", CampaignID: "c", InfluencerID: "i",
	}, false); err != nil {
		t.Fatal(err)
	}

	var dump bytes.Buffer
	if err := run(ctx, src, []string{"export"}, &dump); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, dump.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := newTestApp(t)
	var out bytes.Buffer
	if err := run(ctx, dst, []string{"import", "-file", path}, &out); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 1 influencers, 0 campaigns, 1 publications") {
		t.Errorf("unexpected import summary %q", out.String())
	}

	infs, _ := dst.Store.ListInfluencers(ctx)
	if len(infs) != 1 || infs[0].Name != "Ana" {
		t.Errorf("expected restored influencer, got %+v", infs)
	}
}

func TestIngestAndRefresh(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	csvPath := filepath.Join(t.TempDir(), "urls.csv")
	os.WriteFile(csvPath, []byte("url\nhttps://instagram.com/p/1\nhttps://tiktok.com/v/2\nnot a url\n"), 0o644)

	var out bytes.Buffer
	err := run(ctx, a, []string{"ingest", "-campaign", "c1", "-influencer", "i1", "-file", csvPath, "-fetch"}, &out)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	var result domain.ImportResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("decode ingest output: %v", err)
	}
	if len(result.Created) != 2 || len(result.Rejected) != 1 || !result.MetricsFetch {
		t.Errorf("unexpected ingest result %+v", result)
	}
	for _, p := range result.Created {
		if p.RefreshedAt == nil {
			t.Errorf("expected simulated metrics on %s", p.URL)
		}
	}

	out.Reset()
	if err := run(ctx, a, []string{"refresh", "-campaign", "c1", "-influencer", "i1"}, &out); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	var batch domain.BatchResult
	json.Unmarshal(out.Bytes(), &batch)
	if batch.Total != 2 || batch.Succeeded != 2 {
		t.Errorf("unexpected batch %+v", batch)
	}
}

func TestUsageErrors(t *testing.T) {
	a := newTestApp(t)
	tests := [][]string{
		{},
		{"unknown"},
		{"import"},
		{"ingest", "-campaign", "c1"},
		{"refresh", "-influencer", "i1"},
	}
	for _, args := range tests {
		t.Run(strings.Join(append([]string{"args"}, args...), "_"), func(t *testing.T) {
			err := run(context.Background(), a, args, &bytes.Buffer{})
			if !errors.Is(err, errUsage) {
				t.Errorf("expected usage error, got %v", err)
			}
		})
	}
}
