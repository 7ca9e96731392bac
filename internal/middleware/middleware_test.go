package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, claims JWTClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuth(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		s, _ := SessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": s.UserID, "ctx_user": c.GetString("user_id")})
	})
	r.GET("/p", chain...)
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protectedRouter()

	valid := signToken(t, testSecret, JWTClaims{UserID: "u1", Name: "Bosun", Roles: []string{RoleCrew}})
	w := get(r, "/p", valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, w.Body.String(), `"ctx_user":"u1"`)

	w = get(r, "/p?token="+valid, "")
	assert.Equal(t, http.StatusOK, w.Code, "query token fallback")

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", signToken(t, "other", JWTClaims{UserID: "u1"})},
		{"expired", signToken(t, testSecret, JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}})},
		{"no user", signToken(t, testSecret, JWTClaims{Name: "ghost"})},
		{"refresh token", signToken(t, testSecret, JWTClaims{UserID: "u1", Type: "refresh"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/p", tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter(RequireRole(RoleManager))

	crew := signToken(t, testSecret, JWTClaims{UserID: "c", Roles: []string{RoleCrew}})
	manager := signToken(t, testSecret, JWTClaims{UserID: "m", Roles: []string{RoleManager}})
	admin := signToken(t, testSecret, JWTClaims{UserID: "a", Roles: []string{RoleAdmin}})

	assert.Equal(t, http.StatusForbidden, get(r, "/p", crew).Code)
	assert.Equal(t, http.StatusOK, get(r, "/p", manager).Code)
	assert.Equal(t, http.StatusOK, get(r, "/p", admin).Code, "admin passes every gate")
}

func TestRequireRoleWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", RequireRole(RoleCrew), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusForbidden, get(r, "/p", "").Code)
}

func TestRequestIDAndCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(), RequestID())
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, "/p", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodOptions, "/p", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMetricsCountsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/vessels/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := promtest.ToFloat64(httpRequests.WithLabelValues("/vessels/:id", "GET", "200"))
	get(r, "/vessels/abc", "")
	get(r, "/vessels/def", "")
	after := promtest.ToFloat64(httpRequests.WithLabelValues("/vessels/:id", "GET", "200"))
	assert.Equal(t, before+2, after)
}
