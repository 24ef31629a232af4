package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/requestdata"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject string, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestRouter(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", testSecret)

	am, err := NewAuthMiddleware(logger.NewNop())
	if err != nil {
		t.Fatalf("NewAuthMiddleware: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	var gotUserID string
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		gotUserID = requestdata.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router, &gotUserID
}

func TestRequireAuthBearerHeader(t *testing.T) {
	router, gotUserID := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-42", testSecret))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if *gotUserID != "user-42" {
		t.Fatalf("userID: got %q, want user-42", *gotUserID)
	}
}

func TestRequireAuthQueryToken(t *testing.T) {
	router, gotUserID := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+signToken(t, "user-7", testSecret), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if *gotUserID != "user-7" {
		t.Fatalf("userID: got %q, want user-7", *gotUserID)
	}
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := map[string]string{
		"missing token": "",
		"wrong secret":  signToken(t, "user-1", "other-secret"),
		"no subject":    signToken(t, "", testSecret),
	}
	for name, token := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got %d, want 401", name, rec.Code)
		}
	}
}
