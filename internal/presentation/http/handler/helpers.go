package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	infraRepo "github.com/sangkips/invowise-api/internal/infrastructure/repository"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
)

// GetSession returns the session the auth middleware attached to the request
func GetSession(c *gin.Context) *entity.Session {
	session, ok := infraRepo.GetSession(c.Request.Context())
	if !ok {
		return nil
	}
	return session
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// parseID reads a UUID path parameter, answering 400 when it is malformed
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the body into req. Validation failures answer 422 with the
// offending fields, anything else 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields, ok := request.FieldErrors(err); ok {
			response.ValidationError(c, fields)
			return false
		}
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
