package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/wadjakorntonsri/metrikenos/pkg/app"
	"github.com/wadjakorntonsri/metrikenos/pkg/config"
	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/core/services"
	"github.com/wadjakorntonsri/metrikenos/pkg/logging"
)

const usage = "expected 'export', 'import', 'ingest' or 'refresh' subcommands"

var errUsage = errors.New(usage)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// logs go to stderr so export output stays clean JSON
	log := logging.NewWithWriter(os.Stderr, cfg.LogLevel)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise application")
	}
	defer a.Close()

	if err := run(ctx, a, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		} else {
			log.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		}
		a.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "JSON snapshot to restore")

	ingestCmd := flag.NewFlagSet("ingest", flag.ContinueOnError)
	ingestCampaign := ingestCmd.String("campaign", "", "campaign id")
	ingestInfluencer := ingestCmd.String("influencer", "", "influencer id")
	ingestFile := ingestCmd.String("file", "", "CSV file of publication URLs")
	ingestFetch := ingestCmd.Bool("fetch", false, "fetch metrics for the created publications")

	refreshCmd := flag.NewFlagSet("refresh", flag.ContinueOnError)
	refreshCampaign := refreshCmd.String("campaign", "", "campaign id")
	refreshInfluencer := refreshCmd.String("influencer", "", "influencer id")

	switch args[0] {
	case "export":
		if err := exportCmd.Parse(args[1:]); err != nil {
			return err
		}
		return doExport(ctx, a, out)
	case "import":
		if err := importCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.PrintDefaults()
			return errUsage
		}
		return doImport(ctx, a, *importFile, out)
	case "ingest":
		if err := ingestCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *ingestCampaign == "" || *ingestInfluencer == "" || *ingestFile == "" {
			ingestCmd.PrintDefaults()
			return errUsage
		}
		return doIngest(ctx, a, *ingestCampaign, *ingestInfluencer, *ingestFile, *ingestFetch, out)
	case "refresh":
		if err := refreshCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *refreshCampaign == "" || *refreshInfluencer == "" {
			refreshCmd.PrintDefaults()
			return errUsage
		}
		return doRefresh(ctx, a, *refreshCampaign, *refreshInfluencer, out)
	default:
		return errUsage
	}
}

func encode(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func doExport(ctx context.Context, a *app.App, out io.Writer) error {
	var (
		snap domain.Snapshot
		err  error
	)
	if snap.Influencers, err = a.Store.ListInfluencers(ctx); err != nil {
		return fmt.Errorf("export influencers: %w", err)
	}
	if snap.Campaigns, err = a.Store.ListCampaigns(ctx); err != nil {
		return fmt.Errorf("export campaigns: %w", err)
	}
	if snap.Publications, err = a.Store.ListPublications(ctx); err != nil {
		return fmt.Errorf("export publications: %w", err)
	}
	return encode(out, snap)
}

func doImport(ctx context.Context, a *app.App, filename string, out io.Writer) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := a.Store.Restore(ctx, snap); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Imported %d influencers, %d campaigns, %d publications\n",
		len(snap.Influencers), len(snap.Campaigns), len(snap.Publications))
	return err
}

func doIngest(ctx context.Context, a *app.App, campaignID, influencerID, filename string, fetch bool, out io.Writer) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	rows, err := services.ParseImportCSV(file)
	if err != nil {
		return err
	}
	result, err := a.Publications.Import(ctx, campaignID, influencerID, rows, fetch)
	if err != nil {
		return err
	}
	return encode(out, result)
}

func doRefresh(ctx context.Context, a *app.App, campaignID, influencerID string, out io.Writer) error {
	result, err := a.Publications.RefreshCampaignInfluencer(ctx, campaignID, influencerID)
	if err != nil {
		return err
	}
	if err := encode(out, result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d publications failed to refresh", result.Failed, result.Total)
	}
	return nil
}
