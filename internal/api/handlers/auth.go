package handlers

import (
	"net/http"

	"github.com/clientscore/backend/internal/api/middleware"
	"github.com/clientscore/backend/internal/config"
	"github.com/clientscore/backend/internal/services"
	"github.com/clientscore/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	h.setSessionCookies(c, response.Tokens)
	utils.SendCreated(c, "Account created successfully", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	h.setSessionCookies(c, response.Tokens)
	utils.SendSuccess(c, "Login successful", response)
}

// Refresh accepts the refresh token from its cookie or the request body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(h.cfg.RefreshCookie)
	if token == "" {
		var req services.RefreshRequest
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}

	response, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	h.setSessionCookies(c, response.Tokens)
	utils.SendSuccess(c, "Token refreshed successfully", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookies(c)
	utils.SendSuccess(c, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authService.Me(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Profile retrieved successfully", profile)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens *utils.TokenPair) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.TokenCookieName, tokens.AccessToken, int(h.cfg.AccessTokenTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(h.cfg.RefreshCookie, tokens.RefreshToken, int(h.cfg.RefreshTokenTTL.Seconds()), "/api/v1/auth", "", secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.TokenCookieName, "", -1, "/", "", secure, true)
	c.SetCookie(h.cfg.RefreshCookie, "", -1, "/api/v1/auth", "", secure, true)
}
