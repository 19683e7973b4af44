package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	infraRepo "github.com/sangkips/invowise-api/internal/infrastructure/repository"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invowise-api/pkg/utils"
)

// Session cookie names shared with the browser client
const (
	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"
)

// ExtractToken returns the bearer token from the Authorization header,
// falling back to the access token cookie
func ExtractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	token, err := c.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// AuthMiddleware verifies the access token and attaches the session to the request
func AuthMiddleware(verifier *utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		userID, _ := claims.UserID()

		session := &entity.Session{
			UserID:      userID,
			Email:       claims.Email,
			AccessToken: token,
		}

		c.Set("user_id", userID)
		c.Set("user_email", claims.Email)

		// repositories scope every query by the session in the request context
		c.Request = c.Request.WithContext(infraRepo.WithSession(c.Request.Context(), session))

		c.Next()
	}
}
