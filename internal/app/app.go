package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	auditrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/audit"
	destructionrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/destruction"
	harvestrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/harvest"
	inventoryrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/inventory"
	inventorytyperepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/inventorytype"
	plantrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/plant"
	roomrepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/room"
	roommoverepo "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/roommove"
	"github.com/verdantlabs/seedtrace-backend/internal/auth"
	"github.com/verdantlabs/seedtrace-backend/internal/config"
	"github.com/verdantlabs/seedtrace-backend/internal/service/conversion"
	"github.com/verdantlabs/seedtrace-backend/internal/service/lifecycle"
	"github.com/verdantlabs/seedtrace-backend/internal/transport/middleware"
	"github.com/verdantlabs/seedtrace-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and handlers, and serves HTTP until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	plants := plantrepo.New(pool)
	inventory := inventoryrepo.New(pool)
	types := inventorytyperepo.New(pool)
	harvests := harvestrepo.New(pool)
	destructions := destructionrepo.New(pool)
	moves := roommoverepo.New(pool)
	rooms := roomrepo.New(pool)
	audit := auditrepo.New(pool)

	lifecycleSvc := lifecycle.NewService(
		logger, plants, inventory, types, harvests, destructions, moves, rooms, audit, txManager,
		lifecycle.Config{
			BarcodeRetries:       cfg.Tracking.BarcodeRetries,
			MaxOffspringPerBatch: cfg.Tracking.MaxOffspringPerBatch,
		},
	)
	conversionSvc := conversion.NewService(
		logger, inventory, types, rooms, audit, txManager,
		conversion.Config{
			BarcodeRetries: cfg.Tracking.BarcodeRetries,
			MaxListLimit:   cfg.Tracking.MaxListLimit,
		},
	)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	var rateLimiter *middleware.RateLimiter
	if cfg.Server.RateLimitPerMin > 0 {
		rateLimiter = middleware.NewRateLimiter(time.Minute)
		defer rateLimiter.Stop()
	}

	handler := buildHandler(handlerDeps{
		cfg:           cfg,
		logger:        logger,
		pool:          pool,
		jwtManager:    jwtManager,
		rateLimiter:   rateLimiter,
		lifecycleSvc:  lifecycleSvc,
		conversionSvc: conversionSvc,
		audit:         audit,
		destructions:  destructions,
		moves:         moves,
		types:         types,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("http server listening", slog.String("addr", srv.Addr))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

type handlerDeps struct {
	cfg           *config.Config
	logger        *slog.Logger
	pool          *pgxpool.Pool
	jwtManager    *auth.JWTManager
	rateLimiter   *middleware.RateLimiter
	lifecycleSvc  *lifecycle.Service
	conversionSvc *conversion.Service
	audit         *auditrepo.Repo
	destructions  *destructionrepo.Repo
	moves         *roommoverepo.Repo
	types         *inventorytyperepo.Repo
}

// buildHandler assembles the route table and middleware chain.
func buildHandler(deps handlerDeps) http.Handler {
	mux := http.NewServeMux()

	healthHandler := rest.NewHealthHandler(deps.pool, BuildVersion())
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)

	lifecycleHandler := rest.NewLifecycleHandler(deps.lifecycleSvc, deps.logger)
	conversionHandler := rest.NewConversionHandler(deps.conversionSvc, deps.logger)
	auditHandler := rest.NewAuditHandler(deps.audit, deps.logger)
	destructionHandler := rest.NewDestructionHandler(deps.destructions, deps.logger)
	roomMoveHandler := rest.NewRoomMoveHandler(deps.moves, deps.logger)
	typeHandler := rest.NewInventoryTypeHandler(deps.types, deps.logger)

	api := http.NewServeMux()

	api.HandleFunc("POST /plants", lifecycleHandler.CreatePlant)
	api.HandleFunc("GET /plants/{id}", lifecycleHandler.GetPlant)
	api.HandleFunc("PATCH /plants/{id}", lifecycleHandler.UpdatePlant)
	api.HandleFunc("DELETE /plants/{id}", lifecycleHandler.DeletePlant)
	api.HandleFunc("GET /plants/{id}/history", lifecycleHandler.PlantHistory)
	api.HandleFunc("GET /plants/{id}/moves", roomMoveHandler.ListByPlant)
	api.HandleFunc("POST /plants/{id}/mother", lifecycleHandler.ConvertToMother)
	api.HandleFunc("POST /plants/{id}/clones", lifecycleHandler.GenerateClones)
	api.HandleFunc("POST /plants/{id}/seeds", lifecycleHandler.GenerateSeeds)
	api.HandleFunc("POST /plants/{id}/harvests", lifecycleHandler.CreateHarvest)
	api.HandleFunc("POST /harvests/{id}/cures", lifecycleHandler.CreateCure)
	api.HandleFunc("POST /room-moves", lifecycleHandler.CreateRoomMove)
	api.HandleFunc("POST /destructions", lifecycleHandler.CreateDestruction)
	api.HandleFunc("GET /destructions", destructionHandler.List)
	api.HandleFunc("POST /operations/undo", lifecycleHandler.UndoOperation)

	api.HandleFunc("POST /conversions/wet-to-dry", conversionHandler.WetToDry)
	api.HandleFunc("POST /conversions/dry-to-extraction", conversionHandler.DryToExtraction)
	api.HandleFunc("POST /conversions/extraction-to-finished-goods", conversionHandler.ExtractionToFinishedGoods)
	api.HandleFunc("GET /conversions", conversionHandler.ListConversions)
	api.HandleFunc("GET /conversions/{itemId}", conversionHandler.GetConversion)

	api.HandleFunc("GET /inventory-types", typeHandler.List)
	api.HandleFunc("DELETE /inventory-types/{id}", typeHandler.Deactivate)

	api.HandleFunc("GET /audit", auditHandler.List)
	api.HandleFunc("GET /audit/{entityType}/{entityId}", auditHandler.EntityHistory)

	mws := []middleware.Middleware{
		middleware.Recovery(deps.logger),
		middleware.RequestID,
		middleware.Logger(deps.logger),
		middleware.CORS(deps.cfg.CORS),
	}
	if deps.rateLimiter != nil {
		mws = append(mws, deps.rateLimiter.Limit(deps.cfg.Server.RateLimitPerMin))
	}
	mws = append(mws, middleware.Auth(deps.jwtManager))

	mux.Handle("/", middleware.Chain(mws...)(api))

	return mux
}
