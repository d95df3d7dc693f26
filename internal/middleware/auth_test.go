package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"pdf_quiz_backend/internal/model"
	"pdf_quiz_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func newRouter(revoked RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware("secret", revoked), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).Username)
	})
	r.GET("/admin", AuthMiddleware("secret", revoked), AdminMiddleware(), func(c *gin.Context) {
		util.Success(c, "ok")
	})
	return r
}

func tokenFor(t *testing.T, isAdmin bool) (string, string) {
	t.Helper()
	u := &model.User{Username: "carol", IsAdmin: isAdmin}
	u.ID = 3
	tok, claims, err := util.GenerateJWT(u, "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok, claims.ID
}

func do(r http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	revoked := revokedSet{}
	r := newRouter(revoked)
	tok, jti := tokenFor(t, false)

	if code := do(r, "/me", ""); code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", code)
	}
	if code := do(r, "/me", "garbage"); code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", code)
	}
	if code := do(r, "/me", tok); code != http.StatusOK {
		t.Fatalf("valid token: %d", code)
	}

	revoked[jti] = true
	if code := do(r, "/me", tok); code != http.StatusUnauthorized {
		t.Fatalf("revoked token: %d", code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	r := newRouter(nil)
	userTok, _ := tokenFor(t, false)
	adminTok, _ := tokenFor(t, true)

	if code := do(r, "/admin", userTok); code != http.StatusForbidden {
		t.Fatalf("non-admin: %d", code)
	}
	if code := do(r, "/admin", adminTok); code != http.StatusOK {
		t.Fatalf("admin: %d", code)
	}
}
