package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jamespheffernan/words-on-phone-server/internal/middleware"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/phrases"
	pkgredis "github.com/jamespheffernan/words-on-phone-server/internal/pkg/redis"
	"github.com/jamespheffernan/words-on-phone-server/internal/pkg/response"
)

var startedAt = time.Now()

func (a *App) registerRoutes(phrasesHandler *phrases.Handler, rc *pkgredis.Client) {
	api := a.router.Group("/api/v2")

	// Short-lived response cache for the read-heavy listing endpoints.
	// Task polling and quota status must always be fresh.
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL: 15 * time.Second,
		SkipPaths: []string{
			"/api/v2/health",
			"/api/v2/jobs",
			"/api/v2/phrases/quota",
			"/api/v2/phrases/tasks/*",
		},
	}))

	api.GET("/health", a.health)
	api.GET("/jobs", a.listJobs)
	api.POST("/jobs/:name/run", a.runJob)

	phrasesHandler.RegisterRoutes(api, middleware.Idempotence(rc.Raw()))
}

// GET /api/v2/health
func (a *App) health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	dbOK := err == nil && sqlDB.Ping() == nil
	response.OK(c, gin.H{
		"status":   "ok",
		"env":      a.cfg.Env,
		"database": dbOK,
		"uptime":   time.Since(startedAt).Truncate(time.Second).String(),
	})
}

// GET /api/v2/jobs
func (a *App) listJobs(c *gin.Context) {
	response.OK(c, a.sched.List())
}

// POST /api/v2/jobs/:name/run triggers a maintenance job outside its
// schedule. The run is asynchronous; poll /jobs for the outcome.
func (a *App) runJob(c *gin.Context) {
	name := c.Param("name")
	// Detached from the request context so the job outlives the response.
	if err := a.sched.Run(context.Background(), name); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "job triggered", "job": name})
}
