package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/services"
)

// CourseHandler exposes the catalog cascade deletes. Course, subject and
// topic CRUD is managed elsewhere; only teardown goes through this API.
type CourseHandler struct {
  log              *logger.Logger
  lifecycleService services.LifecycleService
}

func NewCourseHandler(log *logger.Logger, lifecycleService services.LifecycleService) *CourseHandler {
  return &CourseHandler{
    log:              log.With("handler", "CourseHandler"),
    lifecycleService: lifecycleService,
  }
}

// DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
  courseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := h.lifecycleService.DeleteCourse(c.Request.Context(), courseID); err != nil {
    h.log.Error("DeleteCourse failed", "course_id", courseID, "error", err)
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}

// DELETE /api/subjects/:id
func (h *CourseHandler) DeleteSubject(c *gin.Context) {
  subjectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := h.lifecycleService.DeleteSubject(c.Request.Context(), subjectID); err != nil {
    h.log.Error("DeleteSubject failed", "subject_id", subjectID, "error", err)
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}

// DELETE /api/topics/:id
func (h *CourseHandler) DeleteTopic(c *gin.Context) {
  topicID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := h.lifecycleService.DeleteTopic(c.Request.Context(), topicID); err != nil {
    h.log.Error("DeleteTopic failed", "topic_id", topicID, "error", err)
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}
