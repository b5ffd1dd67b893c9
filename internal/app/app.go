package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jamespheffernan/words-on-phone-server/internal/config"
	"github.com/jamespheffernan/words-on-phone-server/internal/database"
	"github.com/jamespheffernan/words-on-phone-server/internal/middleware"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/generation"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/phrases"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/quota"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/scoring"
	pkgcron "github.com/jamespheffernan/words-on-phone-server/internal/pkg/cron"
	pkgredis "github.com/jamespheffernan/words-on-phone-server/internal/pkg/redis"
	"github.com/jamespheffernan/words-on-phone-server/internal/pkg/taskqueue"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → DB → Redis → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.RateLimit(rc.Raw()))

	store := phrases.NewStore(db)
	ledger := quota.NewLedger(db, cfg.Generation.DailyQuota, cfg.Generation.QuotaFailOpen, logger)
	scorer := scoring.NewScorer(scoring.NewBoosterClient(cfg.Boosters), logger)
	taskSvc := taskqueue.NewService(rc)
	clientFactory := func(ctx context.Context) (generation.Client, error) {
		return generation.FromConfig(ctx, cfg.AI)
	}
	orch := phrases.NewOrchestrator(clientFactory, scorer, ledger, store, taskSvc, cfg.Generation, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New(logger)
	registerCronJobs(sched, ledger, taskSvc, logger)
	sched.Start(ctx)

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		logger: logger,
		cancel: cancel,
		sched:  sched,
	}
	app.registerRoutes(phrases.NewHandler(orch, store, ledger), rc)
	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines.
func (a *App) Shutdown() { a.cancel() }
