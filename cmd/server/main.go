package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "aakseva/internal/admin/handler"
	adminservice "aakseva/internal/admin/service"
	"aakseva/internal/admin/store/revocation"
	"aakseva/internal/audit"
	"aakseva/internal/jwttoken"
	"aakseva/internal/media"
	"aakseva/internal/platform/config"
	"aakseva/internal/platform/httpserver"
	"aakseva/internal/platform/logger"
	"aakseva/internal/platform/metrics"
	"aakseva/internal/platform/middleware"
	platformredis "aakseva/internal/platform/redis"
	"aakseva/internal/roles"
	volunteerhandler "aakseva/internal/volunteer/handler"
	volunteerservice "aakseva/internal/volunteer/service"
	"aakseva/internal/volunteer/store"
	dErrors "aakseva/pkg/domain-errors"
	"aakseva/pkg/platform/httputil"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	m := metrics.New()

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "aakseva", "aakseva-admin")

	// Stores: Postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		volunteerStore store.VolunteerStore
		txRunner       store.Tx
		auditStore     audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pgVolunteers := store.NewPostgres(db)
		if err := pgVolunteers.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure volunteer schema", "error", err)
			os.Exit(1)
		}
		pgAudit := audit.NewPostgresStore(db)
		if err := pgAudit.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure audit schema", "error", err)
			os.Exit(1)
		}

		volunteerStore = pgVolunteers
		txRunner = store.NewSQLTx(db)
		auditStore = pgAudit
		log.Info("using postgres stores")
	} else {
		volunteerStore = store.NewInMemory()
		txRunner = store.NewMemoryTx()
		auditStore = audit.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Revocation list: Redis when configured, in-memory otherwise.
	var revocationList adminservice.Revoker
	var revocationChecker middleware.RevocationChecker
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		redisList := revocation.NewRedisList(redisClient.Client)
		revocationList = redisList
		revocationChecker = redisList
		log.Info("using redis token revocation list")
	} else {
		memoryList := revocation.NewInMemoryList()
		revocationList = memoryList
		revocationChecker = memoryList
		log.Warn("REDIS_URL not set, using in-memory token revocation list")
	}

	mediaStore, err := media.NewDiskStore(cfg.MediaDir)
	if err != nil {
		log.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	recorder := audit.NewRecorder(auditStore, log)

	volunteers := volunteerservice.New(volunteerStore, mediaStore, recorder, m, log)
	roleService := roles.New(volunteerStore, txRunner, recorder, m, log)
	admins := adminservice.New(
		adminservice.Credentials{
			Email:        cfg.AdminEmail,
			Name:         cfg.AdminName,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
		},
		tokens, cfg.TokenTTL, revocationList, recorder, m, log,
	)

	guard := middleware.RequireAdmin(jwttoken.NewJWTServiceAdapter(tokens), revocationChecker, log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	volunteerhandler.New(volunteers, log).Register(r)
	adminhandler.New(admins, volunteers, roleService, guard, log).Register(r)

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(req.Context()); err != nil {
				log.ErrorContext(req.Context(), "redis health check failed", "error", err)
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "revocation backend unavailable"))
				return
			}
		}
		httputil.WriteMessage(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/media/*", http.StripPrefix(media.PublicPrefix,
		http.FileServer(http.Dir(mediaStore.Dir()))))

	srv := httpserver.New(cfg.Addr, r)

	go func() {
		log.Info("starting aakseva server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
