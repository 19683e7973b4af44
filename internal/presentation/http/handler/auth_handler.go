package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/invowise-api/internal/application/service"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invowise-api/internal/presentation/http/middleware"
	"github.com/sangkips/invowise-api/pkg/apperror"
)

// refreshCookieMaxAge keeps the refresh cookie for 30 days
const refreshCookieMaxAge = 30 * 24 * 60 * 60

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
	secureCookies  bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		secureCookies:  secureCookies,
	}
}

// SignUp handles account creation
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req request.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.SignUp(c.Request.Context(), &service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)
	response.Created(c, "Account created successfully", response.NewAuthResponse(tokens))
}

// SignIn handles email and password sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req request.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.SignIn(c.Request.Context(), &service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)
	response.OK(c, "Signed in successfully", response.NewAuthResponse(tokens))
}

// Refresh exchanges the refresh token from the body or cookie for a new session
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(middleware.RefreshTokenCookie)
	}
	accessToken := middleware.ExtractToken(c)

	tokens, err := h.authService.Refresh(c.Request.Context(), accessToken, refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)
	response.OK(c, "Session refreshed", response.NewAuthResponse(tokens))
}

// SignOut revokes the session and removes the session cookies
func (h *AuthHandler) SignOut(c *gin.Context) {
	if session := GetSession(c); session != nil {
		h.authService.SignOut(c.Request.Context(), session.AccessToken)
	}
	h.clearCookie(c, middleware.AccessTokenCookie)
	h.clearCookie(c, middleware.RefreshTokenCookie)
	response.OK(c, "Signed out successfully", nil)
}

// ClearCookies removes every auth related cookie the browser sent, which
// recovers clients stuck with a stale session
func (h *AuthHandler) ClearCookies(c *gin.Context) {
	cleared := []string{}
	for _, cookie := range c.Request.Cookies() {
		if isAuthCookie(cookie.Name) {
			h.clearCookie(c, cookie.Name)
			cleared = append(cleared, cookie.Name)
		}
	}
	c.JSON(http.StatusOK, response.ClearCookiesResponse{
		Success: true,
		Message: "Cookies cleared successfully",
		Cleared: cleared,
	})
}

// GetProfile returns the signed-in user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	session := GetSession(c)
	if session == nil {
		response.Error(c, apperror.ErrSessionRequired)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile retrieved successfully", profile)
}

// UpdateProfile changes the signed-in user's display name or company
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	session := GetSession(c)
	if session == nil {
		response.Error(c, apperror.ErrSessionRequired)
		return
	}

	var req request.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), &service.UpdateProfileInput{
		UserID:      session.UserID,
		Email:       session.Email,
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile updated successfully", profile)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string, expiresIn int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, expiresIn, "/", "", h.secureCookies, true)
	if refreshToken != "" {
		c.SetCookie(middleware.RefreshTokenCookie, refreshToken, refreshCookieMaxAge, "/", "", h.secureCookies, true)
	}
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", h.secureCookies, true)
}

func isAuthCookie(name string) bool {
	return strings.HasPrefix(name, "sb-") ||
		strings.Contains(name, "supabase") ||
		strings.Contains(name, "auth-token") ||
		strings.Contains(name, "session")
}
