package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/config"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/handler"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/sse"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/storage"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/middleware"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "dayboard-test-jwt-secret"

// TestEnv holds test environment resources
type TestEnv struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Repos    *repository.Repositories
	Services *service.Services
	Store    *storage.LocalStore
	Hub      *sse.Hub
	T        *testing.T
}

// SetupTestDB opens a migrated sqlite database in the test's temp dir
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dayboard_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

// TestConfig config with the test JWT secret
func TestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             JWTSecret,
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
			Issuer:             "dayboard-test",
		},
	}
}

// NewTestEnv wires repositories, services and the full route table over a
// fresh database and a local blob store. Redis is not used.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	db := SetupTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create blob store: %v", err)
	}
	hub := sse.NewHub(nil)
	repos := repository.NewRepositories(db)
	svc := service.NewServices(repos, nil, store, hub, TestConfig(), zap.NewNop())

	r := SetupRouter()
	handler.RegisterRoutes(r, handler.NewHandlers(svc, hub, zap.NewNop()), JWTSecret)

	return &TestEnv{
		DB:       db,
		Router:   r,
		Repos:    repos,
		Services: svc,
		Store:    store,
		Hub:      hub,
		T:        t,
	}
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid access token for testing
func GenerateTestToken(userID, name, email string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: userID,
		Name:   name,
		Email:  email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "dayboard-test",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			ID:        fmt.Sprintf("test-jti-%d", now.UnixNano()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "Test Admin", "admin@test.com", []string{middleware.RoleAdmin})
}

// CrewToken returns a token for a crew member
func CrewToken(userID, name string) string {
	return GenerateTestToken(userID, name, userID+"@test.com", []string{middleware.RoleCrew})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// MultipartFile one file part for DoMultipart
type MultipartFile struct {
	Field    string
	Filename string
	Content  []byte
}

// DoMultipart posts a multipart form
func DoMultipart(r *gin.Engine, path string, fields map[string]string, files []MultipartFile, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for _, f := range files {
		part, _ := mw.CreateFormFile(f.Field, f.Filename)
		part.Write(f.Content)
	}
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// Data returns the "data" object of a parsed response
func Data(resp map[string]interface{}) map[string]interface{} {
	data, _ := resp["data"].(map[string]interface{})
	return data
}

// SeedDefinition stores a definition with the given fields
func SeedDefinition(t *testing.T, env *TestEnv, name, category, subcategory string, fields ...service.FieldSpecInput) *entity.FormDefinition {
	t.Helper()
	def, err := env.Services.Form.Create(context.Background(), &service.DefinitionRequest{
		Name:        name,
		Category:    category,
		Subcategory: subcategory,
		Fields:      fields,
	}, "test-user-001")
	if err != nil {
		t.Fatalf("Failed to seed definition: %v", err)
	}
	return def
}

// SeedWorkItem stores an outstanding work item
func SeedWorkItem(t *testing.T, env *TestEnv, name, category, definitionID string) *entity.WorkItem {
	t.Helper()
	item, err := env.Services.WorkItem.Create(context.Background(), &service.WorkItemRequest{
		Name:             name,
		Category:         category,
		FormDefinitionID: definitionID,
	}, "test-user-001")
	if err != nil {
		t.Fatalf("Failed to seed work item: %v", err)
	}
	return item
}

// SeedVessel stores a vessel
func SeedVessel(t *testing.T, env *TestEnv, req service.VesselRequest) *entity.Vessel {
	t.Helper()
	vessel, err := env.Services.Vessel.Create(context.Background(), &req)
	if err != nil {
		t.Fatalf("Failed to seed vessel: %v", err)
	}
	return vessel
}
