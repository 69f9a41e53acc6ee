package main

import (
	"context"
	"flag"
	"log"
	"time"

	climateruntime "mulchworks/internal/adapter/climate/runtime"
	httpadapter "mulchworks/internal/adapter/http"
	metricsinmem "mulchworks/internal/adapter/metrics/inmemory"
	gormrepo "mulchworks/internal/adapter/repo/gorm"
	memoryrepo "mulchworks/internal/adapter/repo/memory"
	"mulchworks/internal/adapter/telemetry/csvlog"
	"mulchworks/internal/app/pileaction"
	"mulchworks/internal/app/pileevents"
	"mulchworks/internal/app/pilestatus"
	"mulchworks/internal/app/ports"
	"mulchworks/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	configPath := flag.String("config", "", "path to config yaml (optional)")
	migrationsDir := flag.String("migrations", "./migrations", "path to SQL migrations")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	piles, events, txManager := buildRepos(cfg, *migrationsDir)
	climateProvider := buildClimateProvider(cfg)
	kpiRecorder := metricsinmem.NewRecorder()

	tuning := cfg.Tuning()
	actionUC := pileaction.UseCase{
		TxManager: txManager,
		Piles:     piles,
		Events:    events,
		Climate:   climateProvider,
		Metrics:   kpiRecorder,
		Tuning:    tuning,
		Now:       time.Now,
	}
	statusUC := pilestatus.UseCase{
		Piles:   piles,
		Climate: climateProvider,
		Tuning:  tuning,
	}
	eventsUC := pileevents.UseCase{Events: events}

	telemetryLog, err := csvlog.NewLogger(cfg.Telemetry.Dir, cfg.Telemetry.WindowSize)
	if err != nil {
		log.Fatalf("open telemetry output: %v", err)
	}
	defer telemetryLog.Close()

	if interval := cfg.TickInterval(); interval > 0 {
		go runTicker(actionUC, piles, climateProvider, telemetryLog, interval)
	}

	h := httpadapter.Handler{
		ActionUC: actionUC,
		StatusUC: statusUC,
		EventsUC: eventsUC,
		KPI:      kpiRecorder,
	}

	s := server.Default(server.WithHostPorts(cfg.Server.ListenAddr))
	h.RegisterRoutes(s)

	log.Printf("mulchworks server listening on %s", cfg.Server.ListenAddr)
	s.Spin()
}

func buildRepos(cfg *config.Config, migrationsDir string) (ports.PileRepository, ports.EventRepository, ports.TxManager) {
	if cfg.Database.DSN == "" {
		log.Println("no database DSN configured, using in-memory repositories")
		store := memoryrepo.NewStore()
		return memoryrepo.NewPileRepo(store), memoryrepo.NewEventRepo(store), memoryrepo.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewPileRepo(db), gormrepo.NewEventRepo(db), gormrepo.NewTxManager(db)
}

func buildClimateProvider(cfg *config.Config) ports.ClimateProvider {
	providerCfg := climateruntime.DefaultConfig()
	providerCfg.Clock = cfg.GameClock()
	providerCfg.Curve = cfg.WeatherCurve()
	providerCfg.DefaultRainExposed = cfg.Climate.DefaultRainExposed
	providerCfg.RainExposure = cfg.RainExposure()
	return climateruntime.NewProvider(providerCfg)
}

// runTicker advances every known pile on a fixed cadence so decomposition
// keeps moving while nobody is sending commands, and feeds the telemetry log.
func runTicker(actionUC pileaction.UseCase, piles ports.PileRepository, climateProvider ports.ClimateProvider, telemetryLog *csvlog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()
		pileIDs, err := piles.ListPileIDs(ctx)
		if err != nil {
			log.Printf("ticker: list piles: %v", err)
			continue
		}
		for _, pileID := range pileIDs {
			resp, err := actionUC.Tick(ctx, pileaction.PileRequest{PileID: pileID})
			if err != nil {
				log.Printf("ticker: tick pile %s: %v", pileID, err)
				continue
			}
			snap, err := climateProvider.SnapshotForPile(ctx, pileID)
			if err != nil {
				log.Printf("ticker: climate for pile %s: %v", pileID, err)
				continue
			}
			if err := telemetryLog.Append(csvlog.RowFromView(snap.Hours, resp.View)); err != nil {
				log.Printf("ticker: telemetry for pile %s: %v", pileID, err)
			}
		}
	}
}
