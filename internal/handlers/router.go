package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-tracker/internal/logging"
)

type RouterConfig struct {
	Jobs      *JobHandler
	Goals     *GoalHandler
	Schedules *ScheduleHandler
	Store     Pinger
	Auth      gin.HandlerFunc
	Env       string
	Origins   []string
	Log       logging.Logger
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowCredentials = !config.AllowAllOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-User-ID", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	config.MaxAge = 12 * time.Hour
	return config
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logging.Nop()
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), Recovery(log), cors.New(corsConfig(cfg.Origins)))
	r.NoRoute(notFound)

	r.GET("/health", HealthCheck(cfg.Store, cfg.Env))

	api := r.Group("/api", cfg.Auth)
	{
		jobs := api.Group("/jobs")
		jobs.GET("", cfg.Jobs.ListJobs)
		jobs.GET("/stats", cfg.Jobs.Stats)
		jobs.GET("/:id", cfg.Jobs.GetJob)
		jobs.POST("", cfg.Jobs.CreateJob)
		jobs.POST("/extract", cfg.Jobs.ParseJob)
		jobs.PUT("/:id", cfg.Jobs.UpdateJob)
		jobs.PATCH("/:id/status", cfg.Jobs.UpdateStatus)
		jobs.DELETE("/:id", cfg.Jobs.DeleteJob)
		jobs.DELETE("", cfg.Jobs.DeleteJobs)

		goals := api.Group("/goals")
		goals.POST("", cfg.Goals.UpsertGoal)
		goals.GET("", cfg.Goals.GetGoal)
		goals.DELETE("", cfg.Goals.DeleteGoal)

		schedules := api.Group("/schedules")
		schedules.POST("", cfg.Schedules.CreateSchedule)
		schedules.GET("", cfg.Schedules.ListSchedules)
		schedules.PATCH("/:id", cfg.Schedules.SetCompleted)
		schedules.DELETE("/:id", cfg.Schedules.DeleteSchedule)
	}

	return r
}
