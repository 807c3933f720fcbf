package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hopefund/backend/internal/middleware"
	"github.com/hopefund/backend/internal/services"
	"github.com/hopefund/backend/pkg/logger"
	"github.com/hopefund/backend/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	google      *services.GoogleClient
	frontendURL string
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService, google *services.GoogleClient, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		google:      google,
		frontendURL: frontendURL,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// Register handles new account creation
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, session)
}

// Login handles password login
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(c, "incorrect email or password")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, session)
}

// GoogleAuthURL returns the provider consent URL
// GET /auth/google
func (h *AuthHandler) GoogleAuthURL(c *gin.Context) {
	response.Success(c, gin.H{"auth_url": h.google.AuthURL()})
}

// GoogleLogin exchanges an authorization code for a session
// POST /auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.authService.GoogleLogin(c.Request.Context(), req.Code)
	if err != nil {
		// A bad or expired code is the client's problem; anything past the
		// exchange is ours and must not masquerade as a 400.
		if errors.Is(err, services.ErrGoogleExchange) {
			logger.Warn().Err(err).Msg("google login failed")
			response.BadRequest(c, "google login failed")
			return
		}
		logger.Error().Err(err).Msg("google account resolution failed")
		response.Error(c, err)
		return
	}

	response.Success(c, session)
}

// GoogleCallback handles the provider redirect and forwards the outcome to
// the frontend as query parameters.
// GET /auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn().Str("error", errParam).Msg("google oauth consent error")
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=google_oauth_failed")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=no_authorization_code")
		return
	}

	session, err := h.authService.GoogleLogin(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrGoogleExchange) {
			logger.Warn().Err(err).Msg("google callback login failed")
			c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=google_login_failed")
			return
		}
		logger.Error().Err(err).Msg("google callback account resolution failed")
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=server_error")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/?google_auth=success&token="+session.AccessToken)
}

// Me returns the authenticated account profile
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.ByEmail(middleware.GetEmail(c))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	response.Success(c, user.Public())
}

// MyStats returns the authenticated donor's giving summary
// GET /auth/me/stats
func (h *AuthHandler) MyStats(c *gin.Context) {
	response.Success(c, h.userService.Stats(middleware.GetEmail(c)))
}

// VerifyToken confirms the bearer token is valid
// POST /auth/verify-token
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	user, err := h.authService.ByEmail(middleware.GetEmail(c))
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	response.Success(c, gin.H{"valid": true, "user_id": user.ID})
}
