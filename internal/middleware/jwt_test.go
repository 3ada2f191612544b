package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HoldemServer/internal/auth"
)

func newRouter(iss *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JwtAuthMiddleware(iss), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"player":  c.GetString(CtxPlayerID),
			"session": c.GetString(CtxSessionID),
		})
	})
	return r
}

func TestJwtAuthMiddleware(t *testing.T) {
	iss := auth.NewIssuer([]byte("s3cret"), time.Hour)
	r := newRouter(iss)
	tok, err := iss.Issue("bob_1", "g1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		code   int
	}{
		{"bearer header", "/me", "Bearer " + tok, http.StatusOK},
		{"lower-case scheme", "/me", "bearer " + tok, http.StatusOK},
		{"query param", "/me?token=" + tok, "", http.StatusOK},
		{"missing", "/me", "", http.StatusUnauthorized},
		{"garbage", "/me", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.JSONEq(t, `{"player":"bob_1","session":"g1"}`, w.Body.String())
			}
		})
	}
}

func TestJwtAuthMiddlewareExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	old := auth.NewIssuer([]byte("s3cret"), time.Hour).WithClock(func() time.Time { return past })
	tok, err := old.Issue("bob_1", "g1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	newRouter(auth.NewIssuer([]byte("s3cret"), time.Hour)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"token expired"}`, w.Body.String())
}
