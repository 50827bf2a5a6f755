package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/protrack-ai/protrack/internal/report"
	"github.com/protrack-ai/protrack/internal/tracker"
	"github.com/protrack-ai/protrack/pkg/types"
)

const maxImportSize = 16 << 20 // 16MB

// statusFor maps domain errors onto HTTP statuses. Anything unrecognized is
// a 500; validation failures never mutate state, so they are safe to retry.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrDuplicateDisplayID):
		return http.StatusConflict
	case errors.Is(err, types.ErrTaskNotFound),
		errors.Is(err, types.ErrUpdateNotFound),
		errors.Is(err, types.ErrLogNotFound),
		errors.Is(err, types.ErrObservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDisplayIDEmpty),
		errors.Is(err, types.ErrBadDate),
		errors.Is(err, types.ErrUnknownStatus),
		errors.Is(err, types.ErrUnknownPriority),
		errors.Is(err, types.ErrUnknownColumn),
		errors.Is(err, types.ErrEndpointEmpty),
		errors.Is(err, types.ErrEndpointInvalid),
		errors.Is(err, types.ErrDocumentIDEmpty),
		errors.Is(err, tracker.ErrImportMalformed),
		errors.Is(err, tracker.ErrImportFieldMissing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"aggregate": s.tracker.Snapshot(),
		"config":    s.tracker.AppConfig(),
		"sort_mode": s.store.LoadSortMode(),
	})
}

func (s *Server) handleSetConfig(c *gin.Context) {
	var cfg types.AppConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.SetAppConfig(cfg); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in tracker.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tracker.CreateTask(in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleNextID(c *gin.Context) {
	project := c.Query("project")
	c.JSON(http.StatusOK, gin.H{"display_id": s.tracker.SuggestDisplayID(project)})
}

func (s *Server) handleEditTask(c *gin.Context) {
	var in tracker.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tracker.EditTask(c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tracker.DeleteTask(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.SetTaskStatus(c.Param("id"), body.Status); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetOrder(c *gin.Context) {
	var body struct {
		SortOrder int `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.SetTaskSortOrder(c.Param("id"), body.SortOrder); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddUpdate(c *gin.Context) {
	var body struct {
		Content      string             `json:"content"`
		HighlightTag string             `json:"highlight_tag"`
		Attachments  []types.Attachment `json:"attachments"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update, err := s.tracker.AddTaskUpdate(c.Param("id"), body.Content, body.HighlightTag, body.Attachments)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, update)
}

func (s *Server) handleEditUpdate(c *gin.Context) {
	var body struct {
		Content      string `json:"content"`
		HighlightTag string `json:"highlight_tag"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.EditTaskUpdate(c.Param("id"), c.Param("updateID"), body.Content, body.HighlightTag); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteUpdate(c *gin.Context) {
	if err := s.tracker.DeleteTaskUpdate(c.Param("id"), c.Param("updateID")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddLog(c *gin.Context) {
	var body struct {
		Date    string `json:"date"`
		TaskID  string `json:"task_id"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log, err := s.tracker.AddLog(body.Date, body.TaskID, body.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (s *Server) handleEditLog(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.EditLog(c.Param("id"), body.Content); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteLog(c *gin.Context) {
	if err := s.tracker.DeleteLog(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePruneLogs(c *gin.Context) {
	pruned, err := s.tracker.PruneDanglingLogs()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pruned": pruned})
}

func (s *Server) handleAddObservation(c *gin.Context) {
	var body struct {
		Content string             `json:"content"`
		Images  []types.Attachment `json:"images"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	obs, err := s.tracker.AddObservation(body.Content, body.Images)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, obs)
}

func (s *Server) handleEditObservation(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.EditObservation(c.Param("id"), body.Content); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMoveObservation(c *gin.Context) {
	var body struct {
		Column string `json:"column"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.MoveObservation(c.Param("id"), body.Column); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteObservation(c *gin.Context) {
	if err := s.tracker.DeleteObservation(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToggleOffDay(c *gin.Context) {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.ToggleOffDay(body.Date); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"off_days": s.tracker.Snapshot().OffDays})
}

func (s *Server) handleExport(c *gin.Context) {
	data, err := s.tracker.Export()
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="protrack-export.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) handleImport(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.Import(data); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEnableSync(c *gin.Context) {
	var cfg types.RemoteConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.tracker.EnableSync(cfg); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": s.tracker.SyncStatus()})
}

func (s *Server) handleDisableSync(c *gin.Context) {
	s.tracker.DisableSync()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": s.tracker.SyncStatus()})
}

func (s *Server) handleBackupStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":    s.backup.State(),
		"settings": s.backup.Settings(),
	})
}

func (s *Server) handleBackupFolder(c *gin.Context) {
	var body struct {
		Folder string `json:"folder"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.backup.SelectFolder(body.Folder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": s.backup.State()})
}

func (s *Server) handleBackupPermission(c *gin.Context) {
	if err := s.backup.RequestPermission(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": s.backup.State()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": s.backup.State()})
}

func (s *Server) handleBackupInterval(c *gin.Context) {
	var body struct {
		Minutes int `json:"minutes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.backup.SetInterval(body.Minutes)
	c.JSON(http.StatusOK, gin.H{"settings": s.backup.Settings()})
}

func (s *Server) handleBackupDisable(c *gin.Context) {
	s.backup.Disable()
	c.Status(http.StatusNoContent)
}

// handleWeeklyReport runs the AI summary. A missing credential is
// distinguished so the UI can offer the configuration screen; every other
// failure is surfaced verbatim as the response content.
func (s *Server) handleWeeklyReport(c *gin.Context) {
	gen, err := report.New(c.Request.Context(), s.store.LoadAPIKey(), s.model, s.log)
	if err != nil {
		if errors.Is(err, report.ErrCredentialMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "credential_missing": true})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	text, err := gen.Weekly(c.Request.Context(), s.tracker.Snapshot(), s.store.LoadReportInstructions(), time.Now())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": text})
}

func (s *Server) handleSetAPIKey(c *gin.Context) {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SaveAPIKey(body.APIKey); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetInstructions(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SaveReportInstructions(body.Text); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetSortMode(c *gin.Context) {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SaveSortMode(body.Mode); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
