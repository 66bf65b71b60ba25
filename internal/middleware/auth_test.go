package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exam_admin_backend/internal/config"
	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(cfg *config.Config, roles ...model.UserRole) *gin.Engine {
	router := gin.New()
	group := router.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func tokenFor(t *testing.T, role model.UserRole, secret string) string {
	t.Helper()
	user := &model.User{Email: "t@test.com", Role: role}
	user.ID = "u-1"
	token, err := util.GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "middleware-test-secret"

	router := testRouter(cfg)

	tests := []struct {
		name   string
		header string
		query  string
		expect int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", "", http.StatusUnauthorized},
		{"valid bearer token", "Bearer " + tokenFor(t, model.Candidate, cfg.JWT.Secret), "", http.StatusOK},
		{"valid query token", "", tokenFor(t, model.Candidate, cfg.JWT.Secret), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/protected"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expect {
				t.Errorf("status = %d, want %d", w.Code, tt.expect)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "middleware-test-secret"

	tests := []struct {
		name     string
		required []model.UserRole
		role     model.UserRole
		expect   int
	}{
		{"examiner allowed", []model.UserRole{model.Examiner}, model.Examiner, http.StatusOK},
		{"candidate blocked from examiner routes", []model.UserRole{model.Examiner}, model.Candidate, http.StatusForbidden},
		{"admin passes any check", []model.UserRole{model.Examiner}, model.Admin, http.StatusOK},
		{"candidate allowed on candidate routes", []model.UserRole{model.Candidate}, model.Candidate, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(cfg, tt.required...)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.role, cfg.JWT.Secret))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expect {
				t.Errorf("status = %d, want %d", w.Code, tt.expect)
			}
		})
	}
}
