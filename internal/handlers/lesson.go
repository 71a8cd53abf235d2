package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/services"
)

type LessonHandler struct {
  log              *logger.Logger
  lessonService    services.LessonService
  lifecycleService services.LifecycleService
}

func NewLessonHandler(log *logger.Logger, lessonService services.LessonService, lifecycleService services.LifecycleService) *LessonHandler {
  return &LessonHandler{
    log:              log.With("handler", "LessonHandler"),
    lessonService:    lessonService,
    lifecycleService: lifecycleService,
  }
}

type createLessonRequest struct {
  Name                string   `json:"name"`
  Description         string   `json:"description"`
  Type                string   `json:"type"`
  Difficulty          float64  `json:"difficulty"`
  EstimatedDuration   int      `json:"estimated_duration"`
  KnowledgeComponents []string `json:"knowledge_components"`
  Prerequisites       []string `json:"prerequisites"`
}

// GET /api/lessons
func (h *LessonHandler) ListLessons(c *gin.Context) {
  includeArchived := c.Query("include_archived") == "true"
  lessons, err := h.lessonService.ListLessons(c.Request.Context(), nil, includeArchived)
  if err != nil {
    h.log.Error("ListLessons failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"lessons": lessons})
}

// POST /api/lessons
func (h *LessonHandler) CreateLesson(c *gin.Context) {
  var req createLessonRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  lesson, err := h.lessonService.CreateLesson(c.Request.Context(), nil, services.LessonInput{
    Name:                req.Name,
    Description:         req.Description,
    Type:                req.Type,
    Difficulty:          req.Difficulty,
    EstimatedDuration:   req.EstimatedDuration,
    KnowledgeComponents: req.KnowledgeComponents,
    Prerequisites:       req.Prerequisites,
  })
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
}

// GET /api/lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
  lessonID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  lesson, err := h.lessonService.GetLesson(c.Request.Context(), nil, lessonID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"lesson": lesson})
}

// PATCH /api/lessons/:id
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
  lessonID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  lesson, err := h.lessonService.UpdateLesson(c.Request.Context(), nil, lessonID, updates)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"lesson": lesson})
}

// DELETE /api/lessons/:id
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
  lessonID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := h.lifecycleService.DeleteLesson(c.Request.Context(), lessonID); err != nil {
    h.log.Error("DeleteLesson failed", "lesson_id", lessonID, "error", err)
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}
