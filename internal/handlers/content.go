package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/services"
)

type ContentHandler struct {
  log            *logger.Logger
  contentService services.ContentService
  variantService services.VariantService
}

func NewContentHandler(log *logger.Logger, contentService services.ContentService, variantService services.VariantService) *ContentHandler {
  return &ContentHandler{
    log:            log.With("handler", "ContentHandler"),
    contentService: contentService,
    variantService: variantService,
  }
}

// resolveScope reads the lesson id from the path and the optional
// variant_id query param and resolves them into a content scope.
func (h *ContentHandler) resolveScope(c *gin.Context) (services.Scope, bool) {
  lessonID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return services.Scope{}, false
  }
  var variantID *uuid.UUID
  if raw := c.Query("variant_id"); raw != "" {
    parsed, err := uuid.Parse(raw)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_variant_id", err)
      return services.Scope{}, false
    }
    variantID = &parsed
  }
  scope, err := h.variantService.ResolveScope(c.Request.Context(), nil, lessonID, variantID)
  if err != nil {
    RespondServiceError(c, err)
    return services.Scope{}, false
  }
  return scope, true
}

func parsePathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return uuid.Nil, false
  }
  return id, true
}

// GET /api/lessons/:id/pages
func (h *ContentHandler) ListPages(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  includeArchived := c.Query("include_archived") == "true"
  pages, err := h.contentService.ListPages(c.Request.Context(), nil, scope, includeArchived)
  if err != nil {
    h.log.Error("ListPages failed", "scope", scope.Key(), "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"pages": pages})
}

type createPageRequest struct {
  Name  string `json:"name"`
  Order *int   `json:"order"`
}

// POST /api/lessons/:id/pages
func (h *ContentHandler) CreatePage(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  var req createPageRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  page, err := h.contentService.CreatePage(c.Request.Context(), nil, scope, req.Name, req.Order)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"page": page})
}

// GET /api/lessons/:id/pages/:pageId
func (h *ContentHandler) GetPage(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  page, err := h.contentService.GetPage(c.Request.Context(), nil, scope, pageID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"page": page})
}

// PATCH /api/lessons/:id/pages/:pageId
func (h *ContentHandler) UpdatePage(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  page, err := h.contentService.UpdatePage(c.Request.Context(), nil, scope, pageID, updates)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"page": page})
}

// DELETE /api/lessons/:id/pages/:pageId
func (h *ContentHandler) DeletePage(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  if err := h.contentService.DeletePage(c.Request.Context(), scope, pageID); err != nil {
    h.log.Error("DeletePage failed", "page_id", pageID, "error", err)
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}

type reorderRequest struct {
  OrderedIDs []uuid.UUID `json:"ordered_ids"`
}

// PUT /api/lessons/:id/pages/reorder
func (h *ContentHandler) ReorderPages(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  var req reorderRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  if err := h.contentService.ReorderPages(c.Request.Context(), scope, req.OrderedIDs); err != nil {
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}

type blockPayloadRequest struct {
  Markdown       *string        `json:"markdown"`
  VideoURL       *string        `json:"video_url"`
  Metadata       datatypes.JSON `json:"metadata"`
  ComponentType  *string        `json:"component_type"`
  ComponentPath  *string        `json:"component_path"`
  ComponentProps datatypes.JSON `json:"component_props"`
  ExerciseData   datatypes.JSON `json:"exercise_data"`
}

type createBlockRequest struct {
  Type  string `json:"type"`
  Order *int   `json:"order"`
  blockPayloadRequest
}

// POST /api/lessons/:id/pages/:pageId/blocks
func (h *ContentHandler) CreateBlock(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  var req createBlockRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  payload := services.BlockPayload{
    Markdown:       req.Markdown,
    VideoURL:       req.VideoURL,
    Metadata:       req.Metadata,
    ComponentType:  req.ComponentType,
    ComponentPath:  req.ComponentPath,
    ComponentProps: req.ComponentProps,
    ExerciseData:   req.ExerciseData,
  }
  block, err := h.contentService.CreateBlock(c.Request.Context(), nil, scope, pageID, req.Type, payload, req.Order)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"block": block})
}

// GET /api/lessons/:id/pages/:pageId/blocks/:blockId
func (h *ContentHandler) GetBlock(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  blockID, ok := parsePathUUID(c, "blockId")
  if !ok {
    return
  }
  block, err := h.contentService.GetBlock(c.Request.Context(), nil, scope, pageID, blockID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"block": block})
}

// PATCH /api/lessons/:id/pages/:pageId/blocks/:blockId
func (h *ContentHandler) UpdateBlock(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  blockID, ok := parsePathUUID(c, "blockId")
  if !ok {
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  block, err := h.contentService.UpdateBlock(c.Request.Context(), nil, scope, pageID, blockID, updates)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"block": block})
}

// DELETE /api/lessons/:id/pages/:pageId/blocks/:blockId
func (h *ContentHandler) DeleteBlock(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  blockID, ok := parsePathUUID(c, "blockId")
  if !ok {
    return
  }
  if err := h.contentService.DeleteBlock(c.Request.Context(), nil, scope, pageID, blockID); err != nil {
    h.log.Error("DeleteBlock failed", "block_id", blockID, "error", err)
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}

// PUT /api/lessons/:id/pages/:pageId/blocks/reorder
func (h *ContentHandler) ReorderBlocks(c *gin.Context) {
  scope, ok := h.resolveScope(c)
  if !ok {
    return
  }
  pageID, ok := parsePathUUID(c, "pageId")
  if !ok {
    return
  }
  var req reorderRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  if err := h.contentService.ReorderBlocks(c.Request.Context(), scope, pageID, req.OrderedIDs); err != nil {
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}
