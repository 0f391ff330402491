package handlers

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"socialty-api/internal/auth"
	"socialty-api/internal/database"
	"socialty-api/internal/middleware"
	"socialty-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// setupTestDB points the package-level connection at a fresh in-memory DB
// and seeds two users.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	_, err = testutil.SeedUser(db, "u-1", "alice")
	require.NoError(t, err)
	_, err = testutil.SeedUser(db, "u-2", "bob")
	require.NoError(t, err)
}

func tokenFor(t *testing.T, userID, username string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, username)
	require.NoError(t, err)
	return token
}

// doJSON performs an authenticated JSON request against a router.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doForm performs an authenticated urlencoded form request.
func doForm(t *testing.T, r *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func protected(register func(r gin.IRoutes)) *gin.Engine {
	r := gin.New()
	group := r.Group("", middleware.JWTAuthMiddleware())
	register(group)
	return r
}
