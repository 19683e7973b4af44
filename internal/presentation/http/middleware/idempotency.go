package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/repository"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invowise-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logger.Logger
	Now  func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a keyed write is retried.
// Only 2xx responses are stored, so a failed attempt can be retried with the same key.
// Reusing a key with a different body is rejected.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Log == nil {
		cfg.Log = logger.L
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		userIDValue, _ := c.Get("user_id")
		userID, ok := userIDValue.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Invalid request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := requestHash(c.Request.Method, c.FullPath(), body)

		existing, err := cfg.Repo.GetByKey(c.Request.Context(), key, userID)
		if err != nil {
			// the write still happens, only without replay protection
			cfg.Log.Warnw("idempotency lookup failed", "key", key, "error", err)
			c.Next()
			return
		}

		if existing != nil && existing.ExpiresAt.After(cfg.Now()) {
			if existing.RequestHash != "" && existing.RequestHash != hash {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			UserID:       userID,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			RequestHash:  hash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    cfg.Now().Add(IdempotencyKeyTTL),
		}
		if err := cfg.Repo.Create(c.Request.Context(), ikey); err != nil {
			cfg.Log.Warnw("failed to store idempotency key", "key", key, "error", err)
		}
	}
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method + " " + path + "\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
