package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-portal/internal/auth"
	"campus-portal/internal/auth/otp"
	"campus-portal/internal/auth/session"
	"campus-portal/internal/auth/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDomain = "@as.nfsu.edu.in"

type fakeMailer struct {
	sent     []string
	lastCode string
	fail     bool
}

func (m *fakeMailer) SendOTP(_ context.Context, email, code string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, email)
	m.lastCode = code
	return nil
}

type fakeDirectory struct {
	users  map[string]auth.Identity
	nextID int64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]auth.Identity{}, nextID: 1}
}

func (d *fakeDirectory) FindOrCreate(_ context.Context, email string) (auth.Identity, error) {
	if identity, ok := d.users[email]; ok {
		return identity, nil
	}
	identity := auth.Identity{ID: d.nextID, Email: email, Role: auth.RoleStudent}
	d.nextID++
	d.users[email] = identity
	return identity, nil
}

type testEnv struct {
	router   *gin.Engine
	store    *otp.MemoryStore
	mailer   *fakeMailer
	users    *fakeDirectory
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := otp.NewMemoryStore()
	mailer := &fakeMailer{}
	users := newFakeDirectory()
	sessions := session.NewManager(
		token.New("test-secret", token.DefaultTTL),
		session.CookieOptions{SameSite: http.SameSiteLaxMode},
	)

	h := NewHandler(store, mailer, users, sessions, testDomain)

	router := gin.New()
	h.RegisterRoutes(router)

	return &testEnv{
		router:   router,
		store:    store,
		mailer:   mailer,
		users:    users,
		sessions: sessions,
	}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestSendOTP_RejectsForeignDomain(t *testing.T) {
	e := newTestEnv(t)

	rec := e.postJSON(t, "/api/auth/send-otp", gin.H{"email": "someone@gmail.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, e.mailer.sent, "no delivery may be attempted")

	// No entry was created: the right code for that email cannot exist,
	// but even a stored-then-guessed one must miss.
	ok, err := e.store.CheckAndConsume(context.Background(), "someone@gmail.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSendOTP_RejectsEmptyEmail(t *testing.T) {
	e := newTestEnv(t)

	rec := e.postJSON(t, "/api/auth/send-otp", gin.H{"email": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendOTP_DeliversCode(t *testing.T) {
	e := newTestEnv(t)

	rec := e.postJSON(t, "/api/auth/send-otp", gin.H{"email": "a.student" + testDomain})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"a.student" + testDomain}, e.mailer.sent)
	assert.Len(t, e.mailer.lastCode, 6)
	assert.NotContains(t, rec.Body.String(), e.mailer.lastCode, "the response must not leak the code")
}

func TestSendOTP_DeliveryFailure(t *testing.T) {
	e := newTestEnv(t)
	e.mailer.fail = true

	rec := e.postJSON(t, "/api/auth/send-otp", gin.H{"email": "a.student" + testDomain})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyOTP_InvalidCode(t *testing.T) {
	e := newTestEnv(t)

	rec := e.postJSON(t, "/api/auth/verify-otp", gin.H{
		"email": "a.student" + testDomain,
		"otp":   "123456",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired OTP")
	assert.Empty(t, e.users.users, "no user may be created on a failed verify")
}

func TestVerifyOTP_WrongThenRightCode(t *testing.T) {
	e := newTestEnv(t)
	email := "a.student" + testDomain

	require.Equal(t, http.StatusOK, e.postJSON(t, "/api/auth/send-otp", gin.H{"email": email}).Code)

	wrong := e.postJSON(t, "/api/auth/verify-otp", gin.H{"email": email, "otp": "000000"})
	require.Equal(t, http.StatusBadRequest, wrong.Code)

	// The pending code survives a wrong guess.
	right := e.postJSON(t, "/api/auth/verify-otp", gin.H{"email": email, "otp": e.mailer.lastCode})
	assert.Equal(t, http.StatusOK, right.Code)
}

func TestVerifyOTP_SingleUse(t *testing.T) {
	e := newTestEnv(t)
	email := "a.student" + testDomain

	require.Equal(t, http.StatusOK, e.postJSON(t, "/api/auth/send-otp", gin.H{"email": email}).Code)
	code := e.mailer.lastCode

	first := e.postJSON(t, "/api/auth/verify-otp", gin.H{"email": email, "otp": code})
	require.Equal(t, http.StatusOK, first.Code)

	second := e.postJSON(t, "/api/auth/verify-otp", gin.H{"email": email, "otp": code})
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

func TestVerifyOTP_ReissueInvalidatesFirstCode(t *testing.T) {
	e := newTestEnv(t)
	email := "a.student" + testDomain

	require.Equal(t, http.StatusOK, e.postJSON(t, "/api/auth/send-otp", gin.H{"email": email}).Code)
	firstCode := e.mailer.lastCode

	require.Equal(t, http.StatusOK, e.postJSON(t, "/api/auth/send-otp", gin.H{"email": email}).Code)
	secondCode := e.mailer.lastCode

	if firstCode != secondCode {
		rec := e.postJSON(t, "/api/auth/verify-otp", gin.H{"email": email, "otp": firstCode})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "an overwritten code must not verify")
	}

	rec := e.postJSON(t, "/api/auth/verify-otp", gin.H{"email": email, "otp": secondCode})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFlow_EndToEnd(t *testing.T) {
	e := newTestEnv(t)
	email := "a.student" + testDomain

	require.Equal(t, http.StatusOK, e.postJSON(t, "/api/auth/send-otp", gin.H{"email": email}).Code)

	rec := e.postJSON(t, "/api/auth/verify-otp", gin.H{"email": email, "otp": e.mailer.lastCode})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool          `json:"success"`
		User    auth.Identity `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, email, resp.User.Email)
	assert.Equal(t, auth.RoleStudent, resp.User.Role)
	assert.NotZero(t, resp.User.ID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, session.CookieName, cookies[0].Name)

	// The established session resolves through /me.
	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(cookies[0])
	meRec := httptest.NewRecorder()
	e.router.ServeHTTP(meRec, me)

	require.Equal(t, http.StatusOK, meRec.Code)
	assert.Contains(t, meRec.Body.String(), fmt.Sprintf(`"id":%d`, resp.User.ID))
	assert.Contains(t, meRec.Body.String(), `"STUDENT"`)
}

func TestMe_Anonymous(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())
}

func TestMe_GarbageCookie(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-token"})
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())
}

func TestLogout_ClearsSession(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
