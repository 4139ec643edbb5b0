package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"finance/internal/logger"
	"finance/internal/middleware"
	"finance/internal/models"
	"finance/internal/services"
	"finance/internal/session"
)

// SessionStore is the part of the session manager the handlers need.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*models.Session, string, error)
	Destroy(ctx context.Context, token string) error
	SetCookie(c *gin.Context, token string)
	ClearCookie(c *gin.Context)
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	userService  services.UserServicer
	sessions     SessionStore
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, sessions SessionStore, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, sessions: sessions, auditService: auditService}
}

// RegisterForm is the registration form.
type RegisterForm struct {
	Username     string `form:"username" binding:"required,max=64"`
	Password     string `form:"password" binding:"required,max=128"`
	Confirmation string `form:"confirmation" binding:"required,max=128"`
}

// LoginForm is the login form.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	renderPage(c, "register.html", nil)
}

// Register creates the account and logs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	if err := bindForm(c, &form); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), form.Username, form.Password, form.Confirmation)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, services.AuditRegister, "user", user.ID, c.ClientIP(),
		map[string]any{"username": user.Username})
	redirectHome(c)
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	renderPage(c, "login.html", nil)
}

// Login forgets any current session, then checks the credentials and
// starts a new one.
func (h *AuthHandler) Login(c *gin.Context) {
	h.endSession(c)

	var form LoginForm
	if err := bindForm(c, &form); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, services.AuditLogin, "user", user.ID, c.ClientIP(), nil)
	redirectHome(c)
}

// Logout ends the session and returns to the front page.
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := middleware.UserID(c); ok {
		h.auditService.Log(c.Request.Context(), userID, services.AuditLogout, "user", userID, c.ClientIP(), nil)
	}
	h.endSession(c)
	redirectHome(c)
}

func (h *AuthHandler) startSession(c *gin.Context, userID string) error {
	_, token, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	h.sessions.SetCookie(c, token)
	middleware.SetUserID(c, userID)
	return nil
}

func (h *AuthHandler) endSession(c *gin.Context) {
	if token := session.Token(c); token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			logger.Get().Warnw("failed to destroy session", "error", err, "request_id", middleware.RequestID(c))
		}
		h.sessions.ClearCookie(c)
	}
	middleware.SetUserID(c, "")
}
