package middleware

import (
	"net/http"
	"net/http/httptest"
	"study_aid_backend/internal/config"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = secret

	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return router
}

func validToken(t *testing.T, secret string) string {
	t.Helper()
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Email: "u@example.com"}
	token, err := util.GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	router := newAuthRouter("test-secret")

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, "test-secret"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareCookieFallback(t *testing.T) {
	router := newAuthRouter("test-secret")

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: validToken(t, "test-secret")})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	router := newAuthRouter("test-secret")

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestAuthMiddlewareUndefinedToken(t *testing.T) {
	router := newAuthRouter("test-secret")

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "undefined"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	router := newAuthRouter("test-secret")

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, "another-secret"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}
