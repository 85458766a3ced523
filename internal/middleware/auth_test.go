package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-portal/internal/auth"
	"campus-portal/internal/auth/session"
	"campus-portal/internal/auth/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(
		token.New("test-secret", token.DefaultTTL),
		session.CookieOptions{SameSite: http.SameSiteLaxMode},
	)
	a := NewAuth(sessions)

	r := gin.New()
	r.Use(a.Identify())

	r.GET("/open", func(c *gin.Context) {
		if identity, ok := CurrentUser(c); ok {
			c.JSON(http.StatusOK, gin.H{"email": identity.Email})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": nil})
	})

	authed := r.Group("/")
	authed.Use(a.RequireAuth())
	authed.GET("/private", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	admin := r.Group("/")
	admin.Use(a.RequireAdmin())
	admin.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, sessions
}

func sessionCookie(t *testing.T, sessions *session.Manager, identity auth.Identity) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Establish(rec, identity))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdentify_AnonymousIsNotAnError(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := get(r, "/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":null}`, rec.Body.String())
}

func TestIdentify_AttachesIdentity(t *testing.T) {
	r, sessions := newTestRouter(t)
	cookie := sessionCookie(t, sessions, auth.Identity{ID: 1, Email: "a@as.nfsu.edu.in", Role: auth.RoleStudent})

	rec := get(r, "/open", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"a@as.nfsu.edu.in"}`, rec.Body.String())
}

func TestRequireAuth(t *testing.T) {
	r, sessions := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", nil).Code)

	cookie := sessionCookie(t, sessions, auth.Identity{ID: 1, Email: "a@as.nfsu.edu.in", Role: auth.RoleStudent})
	assert.Equal(t, http.StatusOK, get(r, "/private", cookie).Code)
}

func TestRequireAuth_InvalidCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := get(r, "/private", &http.Cookie{Name: session.CookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, sessions := newTestRouter(t)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", nil).Code)

	student := sessionCookie(t, sessions, auth.Identity{ID: 1, Email: "a@as.nfsu.edu.in", Role: auth.RoleStudent})
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", student).Code)

	admin := sessionCookie(t, sessions, auth.Identity{ID: 2, Email: "dean@as.nfsu.edu.in", Role: auth.RoleAdmin})
	assert.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}
