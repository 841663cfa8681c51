// Command score runs one grading pass and exits. It's the cron entry
// point; the server binary runs the same pipeline on its nightly timer.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/mhopper/edgeboard/internal/adapters/outbound/balldontlie"
	"github.com/mhopper/edgeboard/internal/adapters/outbound/espn"
	"github.com/mhopper/edgeboard/internal/adapters/outbound/nhlapi"
	"github.com/mhopper/edgeboard/internal/config"
	"github.com/mhopper/edgeboard/internal/core/grading"
	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/model"
	"github.com/mhopper/edgeboard/internal/core/predict"
	"github.com/mhopper/edgeboard/internal/telemetry"
)

func main() {
	var (
		dateFlag    = flag.String("date", "", "date to grade (YYYY-MM-DD, default yesterday UTC)")
		leaguesFlag = flag.String("leagues", "", "comma-separated leagues (default all)")
		forceFlag   = flag.Bool("force", false, "regrade even if a summary already exists")
	)
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	date := *dateFlag
	if date == "" {
		date = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		telemetry.Errorf("Invalid -date %q: want YYYY-MM-DD", date)
		os.Exit(2)
	}

	leagues := league.All()
	if *leaguesFlag != "" {
		leagues = leagues[:0]
		for _, part := range strings.Split(*leaguesFlag, ",") {
			lg, err := league.Parse(strings.TrimSpace(part))
			if err != nil {
				telemetry.Errorf("Invalid -leagues: %v", err)
				os.Exit(2)
			}
			leagues = append(leagues, lg)
		}
	}

	// ── Providers ───────────────────────────────────────────────
	conc := int64(cfg.ProviderConcurrency)

	bdl, err := balldontlie.NewClient(cfg.BalldontlieAPIKey, cfg.ProviderTimeout, conc)
	if err != nil {
		telemetry.Errorf("balldontlie: %v — set BALLDONTLIE_API_KEY in .env", err)
		os.Exit(1)
	}
	espnNCAAM, err := espn.NewClient(league.NCAAM, cfg.ProviderTimeout, conc)
	if err != nil {
		telemetry.Errorf("espn ncaam: %v", err)
		os.Exit(1)
	}
	espnNHL, err := espn.NewClient(league.NHL, cfg.ProviderTimeout, conc)
	if err != nil {
		telemetry.Errorf("espn nhl: %v", err)
		os.Exit(1)
	}
	nhl := nhlapi.NewClient(cfg.ProviderTimeout, conc)

	providers := predict.Providers{
		Schedules: map[league.League]predict.ScheduleProvider{
			league.NBA:   bdl,
			league.NCAAM: espnNCAAM,
			league.NHL:   nhl,
		},
		Histories: map[league.League]predict.HistoryProvider{
			league.NBA:   bdl,
			league.NCAAM: espnNCAAM,
			league.NHL:   espnNHL,
		},
	}
	// Grading recomputes model-only slates; market anchors for past dates
	// need the paid historical endpoint and change nothing about grading.

	// ── Pipeline + grading ──────────────────────────────────────
	registry := model.DefaultRegistry()
	if cfg.WeightsPath != "" {
		if err := registry.ApplyOverrides(cfg.WeightsPath); err != nil {
			telemetry.Errorf("Failed to load model weights: %v", err)
			os.Exit(1)
		}
	}

	cache := predict.NewCache(cfg.SlateCacheTTL, 16)
	svc := predict.NewService(providers, registry, cache, cfg.WindowDays)

	store, err := grading.OpenStore(cfg.GradingDBPath)
	if err != nil {
		telemetry.Errorf("Grading store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	runner := grading.NewRunner(svc, providers.Schedules, store, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results := runner.Run(ctx, date, leagues, *forceFlag)

	failed := 0
	for _, res := range results {
		if res.Err != "" {
			failed++
		}
	}
	if failed > 0 {
		telemetry.Errorf("Scoring finished with %d/%d league(s) failed", failed, len(results))
		os.Exit(1)
	}
	telemetry.Infof("Scoring complete for %s (%d league(s))", date, len(results))
}
