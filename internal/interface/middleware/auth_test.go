package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforest/study-forest-api/pkg/helpers"
)

func whoAmI(c *gin.Context) {
	c.String(http.StatusOK, UserID(c))
}

func TestRequireAuth(t *testing.T) {
	jwt := newJWT(t)
	r := gin.New()
	r.GET("/me", RequireAuth(jwt, cookieName, helpers.NewDiscardLogger()), whoAmI)

	w := serve(r, http.MethodGet, "/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication required", decode(t, w).Message)

	w = serve(r, http.MethodGet, "/me", &http.Cookie{Name: cookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid or expired session", decode(t, w).Message)

	w = serve(r, http.MethodGet, "/me", sessionCookie(t, jwt, "user-42"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", w.Body.String())
}

func TestRequireAuthRejectsForeignAndExpiredTokens(t *testing.T) {
	jwt := newJWT(t)
	r := gin.New()
	r.GET("/me", RequireAuth(jwt, cookieName, helpers.NewDiscardLogger()), whoAmI)

	other, err := helpers.NewJWTManager("another-secret", time.Hour)
	require.NoError(t, err)
	w := serve(r, http.MethodGet, "/me", sessionCookie(t, other, "user-42"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := helpers.NewJWTManager(testSecret, time.Nanosecond)
	require.NoError(t, err)
	ck := sessionCookie(t, expired, "user-42")
	time.Sleep(1100 * time.Millisecond)
	w = serve(r, http.MethodGet, "/me", ck)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthUsesConfiguredCookie(t *testing.T) {
	jwt := newJWT(t)
	r := gin.New()
	r.GET("/me", RequireAuth(jwt, "sf_session", helpers.NewDiscardLogger()), whoAmI)

	token := sessionCookie(t, jwt, "user-7")
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", token).Code)

	token.Name = "sf_session"
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/me", token).Code)
}

func TestOptionalAuth(t *testing.T) {
	jwt := newJWT(t)
	r := gin.New()
	r.GET("/who", Chain(OptionalAuth(jwt, cookieName)), whoAmI)

	w := serve(r, http.MethodGet, "/who")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(r, http.MethodGet, "/who", &http.Cookie{Name: cookieName, Value: "garbage"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(r, http.MethodGet, "/who", sessionCookie(t, jwt, "user-9"))
	assert.Equal(t, "user-9", w.Body.String())
}
