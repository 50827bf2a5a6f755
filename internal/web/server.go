// Package web exposes the tracker operations over an HTTP JSON API. The
// server is a thin surface: validation and state changes live in the
// tracker, backup scheduler, and report generator.
package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/internal/backup"
	"github.com/protrack-ai/protrack/internal/store"
	"github.com/protrack-ai/protrack/internal/tracker"
)

// Server routes API requests to the tracker and its collaborators.
type Server struct {
	tracker *tracker.Tracker
	backup  *backup.Scheduler
	store   *store.Store
	model   string
	log     *zap.Logger
	router  *gin.Engine
}

// NewServer wires the routes. model names the Gemini model used for weekly
// reports.
func NewServer(tr *tracker.Tracker, sched *backup.Scheduler, st *store.Store, model string, log *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		tracker: tr,
		backup:  sched,
		store:   st,
		model:   model,
		log:     log,
		router:  router,
	}

	api := router.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.PUT("/config", s.handleSetConfig)

		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/next-id", s.handleNextID)
		api.PUT("/tasks/:id", s.handleEditTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/status", s.handleSetStatus)
		api.POST("/tasks/:id/order", s.handleSetOrder)
		api.POST("/tasks/:id/updates", s.handleAddUpdate)
		api.PUT("/tasks/:id/updates/:updateID", s.handleEditUpdate)
		api.DELETE("/tasks/:id/updates/:updateID", s.handleDeleteUpdate)

		api.POST("/logs", s.handleAddLog)
		api.PUT("/logs/:id", s.handleEditLog)
		api.DELETE("/logs/:id", s.handleDeleteLog)
		api.POST("/logs/prune", s.handlePruneLogs)

		api.POST("/observations", s.handleAddObservation)
		api.PUT("/observations/:id", s.handleEditObservation)
		api.POST("/observations/:id/move", s.handleMoveObservation)
		api.DELETE("/observations/:id", s.handleDeleteObservation)

		api.POST("/offdays", s.handleToggleOffDay)

		api.GET("/export", s.handleExport)
		api.POST("/import", s.handleImport)

		api.POST("/sync", s.handleEnableSync)
		api.DELETE("/sync", s.handleDisableSync)
		api.GET("/sync/status", s.handleSyncStatus)

		api.GET("/backup", s.handleBackupStatus)
		api.POST("/backup/folder", s.handleBackupFolder)
		api.POST("/backup/permission", s.handleBackupPermission)
		api.POST("/backup/interval", s.handleBackupInterval)
		api.DELETE("/backup", s.handleBackupDisable)

		api.POST("/report/weekly", s.handleWeeklyReport)

		api.PUT("/settings/apikey", s.handleSetAPIKey)
		api.PUT("/settings/instructions", s.handleSetInstructions)
		api.PUT("/settings/sortmode", s.handleSetSortMode)
	}

	return s
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
