package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/services"
)

type AuthHandler struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
  return &AuthHandler{
    log:         log.With("handler", "AuthHandler"),
    authService: authService,
  }
}

type registerRequest struct {
  Email     string `json:"email"`
  Password  string `json:"password"`
  FirstName string `json:"first_name"`
  LastName  string `json:"last_name"`
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
  var req registerRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  user, err := h.authService.RegisterUser(c.Request.Context(), services.RegisterInput{
    Email:     req.Email,
    Password:  req.Password,
    FirstName: req.FirstName,
    LastName:  req.LastName,
  })
  if err != nil {
    h.log.Warn("Register failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"user": user})
}

type loginRequest struct {
  Email    string `json:"email"`
  Password string `json:"password"`
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
  var req loginRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  token, user, err := h.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "access_token": token,
    "expires_in":   int(h.authService.GetAccessTTL().Seconds()),
    "user":         user,
  })
}
