package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/oauth2"

	"IG_DIRECTORY_BACK-END/internal/config"
	"IG_DIRECTORY_BACK-END/internal/dto"
	"IG_DIRECTORY_BACK-END/internal/middleware"
	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/services"
)

func sampleSession() *services.Session {
	return &services.Session{
		Admin:     models.AdminIdentity{ID: uuid.New(), Username: "admin", Email: "admin@example.com", Role: "admin"},
		Token:     "signed.jwt.token",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
}

func TestLogin(t *testing.T) {
	id := &fakeIdentity{session: sampleSession()}
	h := NewAuthHandler(id, zaptest.NewLogger(t))

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"pw"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody[dto.AuthResponse](t, rr)
	assert.Equal(t, "signed.jwt.token", body.Token)
	assert.Equal(t, "admin", body.Admin.Username)
	assert.Equal(t, "admin@example.com", body.Admin.Email)
}

func TestLogin_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"missing password", `{"username":"admin"}`, nil, http.StatusBadRequest},
		{"wrong password", `{"username":"admin","password":"x"}`, services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"backend", `{"username":"admin","password":"x"}`, services.ErrBackendUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeIdentity{err: tc.err}, zaptest.NewLogger(t))
			rr := httptest.NewRecorder()
			h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body)))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestLogoutAndMe(t *testing.T) {
	id := &fakeIdentity{}
	h := NewAuthHandler(id, zaptest.NewLogger(t))
	claims := &services.SessionClaims{AdminID: uuid.New(), Username: "admin", Email: "admin@example.com", Role: "admin"}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := httptest.NewRecorder()
	h.Me(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	rr = httptest.NewRecorder()
	h.Me(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin", decodeBody[dto.AdminResponse](t, rr).Username)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	rr = httptest.NewRecorder()
	h.Logout(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, claims, id.loggedOut)
}

func newTestGoogleHandler(t *testing.T, id *fakeIdentity, user *dto.GoogleUserInfo, fetchErr error) *GoogleAuthHandler {
	t.Helper()
	h := NewGoogleAuthHandler(config.GoogleOAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
	}, id, zaptest.NewLogger(t))
	return h.WithUserFetcher(func(_ context.Context, code string) (*dto.GoogleUserInfo, error) {
		assert.Equal(t, "the-code", code)
		return user, fetchErr
	})
}

func googleCallback(h *GoogleAuthHandler, state, cookieState string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=the-code&state="+url.QueryEscape(state), nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: cookieState})
	}
	rr := httptest.NewRecorder()
	h.GoogleCallback(rr, req)
	return rr
}

func TestGoogleLogin_SetsStateCookie(t *testing.T) {
	h := newTestGoogleHandler(t, &fakeIdentity{}, nil, nil)

	rr := httptest.NewRecorder()
	h.GoogleLogin(rr, httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody[dto.GoogleLoginResponse](t, rr)
	assert.NotEmpty(t, body.State)
	assert.Contains(t, body.AuthURL, "accounts.google.com")
	assert.Contains(t, body.AuthURL, "state="+body.State)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, oauthStateCookie, cookies[0].Name)
	assert.Equal(t, body.State, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestGoogleCallback(t *testing.T) {
	verified := &dto.GoogleUserInfo{Email: "admin@example.com", Verified: true}

	id := &fakeIdentity{session: sampleSession()}
	rr := googleCallback(newTestGoogleHandler(t, id, verified, nil), "s1", "s1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin@example.com", id.emailLogin)
	assert.Equal(t, "signed.jwt.token", decodeBody[dto.AuthResponse](t, rr).Token)

	assert.Equal(t, http.StatusBadRequest, googleCallback(newTestGoogleHandler(t, id, verified, nil), "s1", "other").Code)
	assert.Equal(t, http.StatusBadRequest, googleCallback(newTestGoogleHandler(t, id, verified, nil), "s1", "").Code)

	unverified := &dto.GoogleUserInfo{Email: "admin@example.com"}
	assert.Equal(t, http.StatusUnauthorized, googleCallback(newTestGoogleHandler(t, id, unverified, nil), "s", "s").Code)

	notAdmin := &fakeIdentity{err: services.ErrInvalidCredentials}
	assert.Equal(t, http.StatusUnauthorized, googleCallback(newTestGoogleHandler(t, notAdmin, verified, nil), "s", "s").Code)

	badCode := &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}}
	assert.Equal(t, http.StatusUnauthorized, googleCallback(newTestGoogleHandler(t, id, nil, badCode), "s", "s").Code)

	assert.Equal(t, http.StatusBadGateway, googleCallback(newTestGoogleHandler(t, id, nil, errors.New("dial tcp")), "s", "s").Code)
}

func TestGoogleCallback_MissingCode(t *testing.T) {
	h := newTestGoogleHandler(t, &fakeIdentity{}, nil, nil)
	rr := httptest.NewRecorder()
	h.GoogleCallback(rr, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
