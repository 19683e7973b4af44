package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/invowise-api/internal/config"
	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/domain/repository/mocks"
	infraRepo "github.com/sangkips/invowise-api/internal/infrastructure/repository"
	"github.com/sangkips/invowise-api/pkg/logger"
	"github.com/sangkips/invowise-api/pkg/utils"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := utils.SessionClaims{
		Email: "owner@invowise.test",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{utils.DefaultAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer header", "Bearer abc", "", "abc"},
		{"case insensitive scheme", "bearer abc", "", "abc"},
		{"cookie fallback", "", "from-cookie", "from-cookie"},
		{"header wins over cookie", "Bearer abc", "from-cookie", "abc"},
		{"wrong scheme", "Basic abc", "from-cookie", ""},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, ExtractToken(c))
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := gin.New()
	router.Use(AuthMiddleware(utils.NewTokenVerifier(testSecret, "")))
	router.GET("/me", func(c *gin.Context) {
		session, ok := infraRepo.GetSession(c.Request.Context())
		require.True(t, ok)
		assert.Equal(t, c.MustGet("user_id"), session.UserID)
		c.String(http.StatusOK, session.UserID.String()+" "+session.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("cookie session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signedToken(t, userID)})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String()+" owner@invowise.test", w.Body.String())
	})
}

func TestUserRateLimiter(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	alice, bob := uuid.New(), uuid.New()
	router := gin.New()
	router.GET("/alice", withUser(alice), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bob", withUser(bob), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/anon", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, hit("/alice").Code)
	assert.Equal(t, http.StatusOK, hit("/alice").Code)

	w := hit("/alice")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	// buckets are per user
	assert.Equal(t, http.StatusOK, hit("/bob").Code)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit("/anon").Code)
	}

	assert.Equal(t, 2, rl.Stats()["active_users"])
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(&config.RateLimitConfig{Requests: 120, Duration: 60})
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	cfg = RateLimiterConfigFrom(&config.RateLimitConfig{})
	assert.Equal(t, DefaultRateLimiterConfig(), cfg)
}

func TestUserRateLimiter_Cleanup(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, CleanupInterval: time.Hour, EntryTTL: time.Millisecond})
	defer rl.Stop()

	rl.getLimiter(uuid.New())
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()
	assert.Equal(t, 0, rl.Stats()["active_users"])
}

func newIdempotencyRouter(repo *mocks.IdempotencyRepository, userID uuid.UUID, status int, calls *int) *gin.Engine {
	router := gin.New()
	router.POST("/invoices", withUser(userID), Idempotency(IdempotencyConfig{Repo: repo, Log: logger.NewNop()}), func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"call": *calls})
	})
	return router
}

func postKeyed(router *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_StoresSuccessfulResponse(t *testing.T) {
	repo := new(mocks.IdempotencyRepository)
	userID := uuid.New()
	calls := 0
	router := newIdempotencyRouter(repo, userID, http.StatusCreated, &calls)

	var stored *entity.IdempotencyKey
	repo.On("GetByKey", mock.Anything, "key-1", userID).Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.IdempotencyKey")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.IdempotencyKey) }).
		Return(nil).Once()

	w := postKeyed(router, "key-1", `{"total":"10"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, stored)
	assert.Equal(t, "POST /invoices", stored.Endpoint)
	assert.Equal(t, http.StatusCreated, stored.ResponseCode)
	assert.JSONEq(t, `{"call":1}`, stored.ResponseBody)
	assert.Len(t, stored.RequestHash, 64)

	// the retry replays without running the handler
	repo.On("GetByKey", mock.Anything, "key-1", userID).Return(stored, nil).Once()
	w = postKeyed(router, "key-1", `{"total":"10"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, `{"call":1}`, w.Body.String())
	assert.Equal(t, 1, calls)

	// same key with another body is refused
	repo.On("GetByKey", mock.Anything, "key-1", userID).Return(stored, nil).Once()
	w = postKeyed(router, "key-1", `{"total":"99"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1, calls)

	repo.AssertExpectations(t)
}

func TestIdempotency_SkipsFailuresAndUnkeyedRequests(t *testing.T) {
	repo := new(mocks.IdempotencyRepository)
	userID := uuid.New()
	calls := 0
	router := newIdempotencyRouter(repo, userID, http.StatusUnprocessableEntity, &calls)

	repo.On("GetByKey", mock.Anything, "key-2", userID).Return(nil, nil)

	w := postKeyed(router, "key-2", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = postKeyed(router, "", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Equal(t, 2, calls)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNumberOfCalls(t, "GetByKey", 1)
}

func TestIdempotency_ExpiredKeyRunsAgain(t *testing.T) {
	repo := new(mocks.IdempotencyRepository)
	userID := uuid.New()
	calls := 0
	router := newIdempotencyRouter(repo, userID, http.StatusOK, &calls)

	repo.On("GetByKey", mock.Anything, "old", userID).Return(&entity.IdempotencyKey{
		Key:          "old",
		ResponseCode: http.StatusOK,
		ResponseBody: `{"call":0}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := postKeyed(router, "old", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, calls)
}

func TestLoggerMiddleware_RequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware(logger.NewNop()), SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(logger.NewNop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
