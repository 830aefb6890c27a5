package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SetsSessionCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@studio.io")

	w, _ := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "alice@studio.io", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == ts.cfg.TokenCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(session)
	me := httptest.NewRecorder()
	ts.router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &env))
	var profile struct {
		Email       string `json:"email"`
		ReviewCount int64  `json:"reviewCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "alice@studio.io", profile.Email)
	assert.Zero(t, profile.ReviewCount)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@studio.io")

	w, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "alice@studio.io", "password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Error.Message)
}

func TestRegister_Conflict(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@studio.io")

	w, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ALICE@studio.io", "password": "password123", "companyName": "Again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 409, env.Error.StatusCode)
}

func TestSuspendedAccount_LosesAccess(t *testing.T) {
	ts := newTestServer(t)
	token, accountID := ts.register(t, "alice@studio.io")

	w, _ := ts.do(t, http.MethodPatch, "/api/v1/admin/accounts/"+accountID+"/suspension", ts.adminToken(t), map[string]bool{"suspended": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Account is suspended or inactive", env.Error.Message)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
}
