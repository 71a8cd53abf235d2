package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/openlearn/openlearn-backend/internal/services"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the service error taxonomy onto stable HTTP
// statuses and machine codes. Unrecognized errors fall through to 500.
func RespondServiceError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, services.ErrVariantNotFound):
    RespondError(c, http.StatusNotFound, "variant_not_found", err)
  case errors.Is(err, services.ErrNotFound):
    RespondError(c, http.StatusNotFound, "not_found", err)
  case errors.Is(err, services.ErrInvalidContentType):
    RespondError(c, http.StatusBadRequest, "invalid_content_type", err)
  case errors.Is(err, services.ErrMissingField):
    RespondError(c, http.StatusBadRequest, "missing_field", err)
  case errors.Is(err, services.ErrInvalidField):
    RespondError(c, http.StatusBadRequest, "invalid_field", err)
  case errors.Is(err, services.ErrOrderMismatch):
    RespondError(c, http.StatusBadRequest, "order_mismatch", err)
  case errors.Is(err, services.ErrConflict):
    RespondError(c, http.StatusConflict, "conflict", err)
  case errors.Is(err, services.ErrUnauthorized):
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal_error", err)
  }
}
