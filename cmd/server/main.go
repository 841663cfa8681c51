package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhopper/edgeboard/internal/adapters/inbound/fanout"
	"github.com/mhopper/edgeboard/internal/adapters/inbound/httpapi"
	"github.com/mhopper/edgeboard/internal/adapters/outbound/balldontlie"
	"github.com/mhopper/edgeboard/internal/adapters/outbound/espn"
	"github.com/mhopper/edgeboard/internal/adapters/outbound/nhlapi"
	"github.com/mhopper/edgeboard/internal/adapters/outbound/oddsapi"
	"github.com/mhopper/edgeboard/internal/config"
	"github.com/mhopper/edgeboard/internal/core/grading"
	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/model"
	"github.com/mhopper/edgeboard/internal/core/predict"
	"github.com/mhopper/edgeboard/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting edgeboard server")

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

	if cfg.OddsAPIEnabled && cfg.OddsAPIKey != "" {
		market, err := oddsapi.NewClient(cfg.OddsAPIKey, cfg.OddsAPIHistorical, cfg.ProviderTimeout, conc)
		if err != nil {
			telemetry.Warnf("oddsapi disabled: %v", err)
		} else {
			providers.Market = market
		}
	} else {
		telemetry.Infof("Market anchors disabled (no ODDS_API_KEY or ODDS_API_ENABLED=false)")
	}

	// ── Models ──────────────────────────────────────────────────
	registry := model.DefaultRegistry()
	if cfg.WeightsPath != "" {
		if err := registry.ApplyOverrides(cfg.WeightsPath); err != nil {
			telemetry.Errorf("Failed to load model weights: %v", err)
			os.Exit(1)
		}
		telemetry.Infof("Model weights overridden from %q", cfg.WeightsPath)
	}

	// ── Pipeline ────────────────────────────────────────────────
	cache := predict.NewCache(cfg.SlateCacheTTL, 128)
	svc := predict.NewService(providers, registry, cache, cfg.WindowDays)

	// ── Grading ─────────────────────────────────────────────────
	store, err := grading.OpenStore(cfg.GradingDBPath)
	if err != nil {
		telemetry.Errorf("Grading store: %v", err)
		os.Exit(1)
	}

	hub := fanout.NewHub()
	runner := grading.NewRunner(svc, providers.Schedules, store, hub)
	svc.OnSlateComputed(func(s *predict.Slate) {
		hub.PublishLeague("slate_refreshed", string(s.Meta.League), s.Meta)
	})

	// ── HTTP server ─────────────────────────────────────────────
	handler := httpapi.NewHandler(svc, runner, hub.HandleWS)

	addr := fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Errorf("HTTP server: %v", err)
			os.Exit(1)
		}
	}()
	telemetry.Infof("API listening on %q", addr)

	// ── Nightly scoring ─────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.NightlyEnabled {
		go nightlyLoop(ctx, runner, cfg.NightlyHourUTC)
		telemetry.Infof("Nightly scoring armed for %02d:00 UTC", cfg.NightlyHourUTC)
	}

	// ── Shutdown ────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	telemetry.Infof("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	store.Close()
	telemetry.Infof("Shutdown complete")
}

// nightlyLoop fires one scoring run per day at the configured UTC hour,
// grading the date that just ended (yesterday in UTC).
func nightlyLoop(ctx context.Context, runner *grading.Runner, hourUTC int) {
	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}

		date := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
		telemetry.Infof("Nightly scoring run for %s", date)
		runner.Run(ctx, date, league.All(), false)
	}
}
