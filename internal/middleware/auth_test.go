package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userName, _ := GetUsername(c)
		c.JSON(http.StatusOK, gin.H{"username": userName})
	})
	r.GET("/admin", AuthMiddleware(), RequireAuthority("ROLE_ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newProtectedRouter()

	t.Run("valid token passes and exposes username", func(t *testing.T) {
		token, err := GenerateToken("alice", []string{"ROLE_USER"}, time.Hour)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		w := request(router, "/protected", token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := request(router, "/protected", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		w := request(router, "/protected", "not-a-token")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := GenerateToken("alice", []string{"ROLE_USER"}, -time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		w := request(router, "/protected", token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("authority gate", func(t *testing.T) {
		userToken, _ := GenerateToken("alice", []string{"ROLE_USER"}, time.Hour)
		adminToken, _ := GenerateToken("root", []string{"ROLE_USER", "ROLE_ADMIN"}, time.Hour)

		if w := request(router, "/admin", userToken); w.Code != http.StatusForbidden {
			t.Errorf("expected 403 for non-admin, got %d", w.Code)
		}
		if w := request(router, "/admin", adminToken); w.Code != http.StatusOK {
			t.Errorf("expected 200 for admin, got %d", w.Code)
		}
	})
}
