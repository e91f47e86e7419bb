package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"redecell/internal/auth"
	"redecell/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "middleware-secret"

func init() { gin.SetMode(gin.TestMode) }

type fakeLoader struct {
	principals map[uuid.UUID]*auth.Principal
	err        error
}

func (l *fakeLoader) LoadPrincipal(_ context.Context, id uuid.UUID) (*auth.Principal, error) {
	if l.err != nil {
		return nil, l.err
	}
	p, ok := l.principals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func newGate(t *testing.T, loader middleware.PrincipalLoader, sec, perm string) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/x", middleware.Authenticate(sec, loader), middleware.Authorize(perm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentPrincipal(c).Email})
	})
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthGate(t *testing.T) {
	cashierID, adminID, ghostID := uuid.New(), uuid.New(), uuid.New()
	loader := &fakeLoader{principals: map[uuid.UUID]*auth.Principal{
		cashierID: {UserID: cashierID, Email: "caixa@loja", Role: "cashier", Permissions: []string{auth.PermCashierOperate}},
		adminID:   {UserID: adminID, Email: "admin@loja", Role: auth.RoleAdmin},
	}}
	token := func(id uuid.UUID) string {
		tok, err := auth.IssueToken(secret, id, time.Hour)
		require.NoError(t, err)
		return tok
	}
	expired, err := auth.IssueToken(secret, cashierID, -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name  string
		perm  string
		token string
		want  int
	}{
		{"missing token", auth.PermCashierOperate, "", http.StatusUnauthorized},
		{"garbage token", auth.PermCashierOperate, "not-a-jwt", http.StatusForbidden},
		{"expired token", auth.PermCashierOperate, expired, http.StatusForbidden},
		{"unknown user", auth.PermCashierOperate, token(ghostID), http.StatusForbidden},
		{"permission granted", auth.PermCashierOperate, token(cashierID), http.StatusOK},
		{"permission missing", auth.PermFinanceManage, token(cashierID), http.StatusForbidden},
		{"admin bypass", auth.PermFinanceManage, token(adminID), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(newGate(t, loader, secret, tc.perm), tc.token)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestAuthenticate_MissingSecret(t *testing.T) {
	w := call(newGate(t, &fakeLoader{}, "", auth.PermCashierOperate), "anything")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Erro interno do servidor"}`, w.Body.String())
}

func TestAuthenticate_LoaderFailure(t *testing.T) {
	tok, err := auth.IssueToken(secret, uuid.New(), time.Hour)
	require.NoError(t, err)
	w := call(newGate(t, &fakeLoader{err: errors.New("db down")}, secret, auth.PermCashierOperate), tok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthorize_WithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/x", middleware.Authorize(auth.PermCashierOperate), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	w := call(r, "")
	generated := w.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRecoveryAndErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.ErrorHandler())
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	r.GET("/err", func(c *gin.Context) { _ = c.Error(errors.New("pq: relation does not exist")) })

	for _, path := range []string{"/panic", "/err"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.NotContains(t, w.Body.String(), "pq:")
		assert.JSONEq(t, `{"detail":"Erro interno do servidor"}`, w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS("https://loja.redecell.com.br"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://loja.redecell.com.br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://loja.redecell.com.br", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimiter(2, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, call(r, "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
