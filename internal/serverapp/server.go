// Package serverapp assembles the engine, storage, catalog and transport
// into one http.Handler.
package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"tapforge/internal/catalog"
	"tapforge/internal/config"
	"tapforge/internal/engine"
	"tapforge/internal/feed"
	"tapforge/internal/httpmw"
	"tapforge/internal/player"
	"tapforge/internal/telemetry"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
	Clock  engine.Clock
	// Context bounds the feed hub's lifetime; background when nil.
	Context context.Context
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = engine.RealClock{}
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	players, events, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	hub := feed.NewHub(opts.Logger)
	go hub.Run(ctx)

	eng := engine.Engine{
		Players:   players,
		Catalog:   cat,
		Balance:   config.FromEnv(cfg.Balance),
		Clock:     opts.Clock,
		Telemetry: fanoutRecorder{repo: events, hub: hub},
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"service": "tapforge",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	engineHandler := engine.NewHandler(eng)
	mux.HandleFunc("/api/player/state", engineHandler.State)
	mux.HandleFunc("/api/player/tap", engineHandler.Tap)
	mux.HandleFunc("/api/shop", engineHandler.Shop)
	mux.HandleFunc("/api/shop/buy", engineHandler.Buy)
	mux.HandleFunc("/api/level/advance", engineHandler.Advance)

	catalogHandler := catalog.NewHandler(cat)
	mux.HandleFunc("/api/catalog/upgrades", catalogHandler.Upgrades)
	mux.HandleFunc("/api/catalog/requirements", catalogHandler.Requirements)

	telemetryHandler := telemetry.NewHandler(events)
	mux.HandleFunc("/api/events", telemetryHandler.Events)

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		feed.ServeWs(hub, w, r)
	})

	return httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	), nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if strings.TrimSpace(cfg.Catalog.Path) == "" {
		return catalog.Seed(), nil
	}
	return catalog.LoadFile(cfg.Catalog.Path)
}

func openStorage(cfg *config.Config) (player.Repository, telemetry.Repository, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return player.NewMemoryRepo(cfg.Balance), telemetry.NewMemoryRepository(), nil
	case "file":
		repo, err := player.NewFileRepo(cfg.Storage.DataDir, cfg.Balance)
		if err != nil {
			return nil, nil, err
		}
		return repo, telemetry.NewMemoryRepository(), nil
	case "sqlite":
		db, err := player.InitSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		events, err := telemetry.NewSQLiteRepository(db)
		if err != nil {
			return nil, nil, err
		}
		return player.NewSQLiteRepo(db, cfg.Balance), events, nil
	default:
		return nil, nil, errors.New("unknown storage driver: " + cfg.Storage.Driver)
	}
}

// fanoutRecorder stores events and pushes them to the live feed. The feed
// forwards exactly the stored event, so both sinks agree on event identity.
type fanoutRecorder struct {
	repo telemetry.Recorder
	hub  *feed.Hub
}

func (f fanoutRecorder) RecordEvent(t telemetry.EventType, playerID string, md telemetry.EventMetadata) (telemetry.Event, error) {
	e, err := f.repo.RecordEvent(t, playerID, md)
	if err != nil {
		return telemetry.Event{}, err
	}
	f.hub.Publish(e)
	return e, nil
}
