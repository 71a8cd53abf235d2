package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/services"
)

type VariantHandler struct {
  log            *logger.Logger
  variantService services.VariantService
}

func NewVariantHandler(log *logger.Logger, variantService services.VariantService) *VariantHandler {
  return &VariantHandler{
    log:            log.With("handler", "VariantHandler"),
    variantService: variantService,
  }
}

func (h *VariantHandler) pathIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
  lessonID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return uuid.Nil, uuid.Nil, false
  }
  variantID, err := uuid.Parse(c.Param("variantId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_variant_id", err)
    return uuid.Nil, uuid.Nil, false
  }
  return lessonID, variantID, true
}

// GET /api/lessons/:id/variants
func (h *VariantHandler) ListVariants(c *gin.Context) {
  lessonID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  variants, err := h.variantService.ListVariants(c.Request.Context(), nil, lessonID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"variants": variants})
}

type createVariantRequest struct {
  Name        string `json:"name"`
  Slug        string `json:"slug"`
  Description string `json:"description"`
  IsDefault   bool   `json:"is_default"`
  Weight      int    `json:"weight"`
  IsActive    *bool  `json:"is_active"`
}

// POST /api/lessons/:id/variants
func (h *VariantHandler) CreateVariant(c *gin.Context) {
  lessonID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  var req createVariantRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  variant, err := h.variantService.CreateVariant(c.Request.Context(), lessonID, services.VariantInput{
    Name:        req.Name,
    Slug:        req.Slug,
    Description: req.Description,
    IsDefault:   req.IsDefault,
    Weight:      req.Weight,
    IsActive:    req.IsActive,
  })
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"variant": variant})
}

// PATCH /api/lessons/:id/variants/:variantId
func (h *VariantHandler) UpdateVariant(c *gin.Context) {
  lessonID, variantID, ok := h.pathIDs(c)
  if !ok {
    return
  }
  var updates map[string]interface{}
  if err := c.ShouldBindJSON(&updates); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  variant, err := h.variantService.UpdateVariant(c.Request.Context(), nil, lessonID, variantID, updates)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"variant": variant})
}

// POST /api/lessons/:id/variants/:variantId/default
func (h *VariantHandler) SetDefaultVariant(c *gin.Context) {
  lessonID, variantID, ok := h.pathIDs(c)
  if !ok {
    return
  }
  variant, err := h.variantService.SetDefaultVariant(c.Request.Context(), lessonID, variantID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"variant": variant})
}

// DELETE /api/lessons/:id/variants/:variantId
func (h *VariantHandler) DeleteVariant(c *gin.Context) {
  lessonID, variantID, ok := h.pathIDs(c)
  if !ok {
    return
  }
  if err := h.variantService.DeleteVariant(c.Request.Context(), lessonID, variantID); err != nil {
    h.log.Error("DeleteVariant failed", "variant_id", variantID, "error", err)
    RespondServiceError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}
