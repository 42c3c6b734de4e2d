package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"IG_DIRECTORY_BACK-END/internal/config"
	"IG_DIRECTORY_BACK-END/internal/dto"
	"IG_DIRECTORY_BACK-END/internal/logger"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

const oauthStateCookie = "igdir_oauth_state"

// GoogleUserFetcher exchanges an authorization code for the Google account behind it
type GoogleUserFetcher func(ctx context.Context, code string) (*dto.GoogleUserInfo, error)

// GoogleAuthHandler signs admins in with their verified Google email
type GoogleAuthHandler struct {
	oauth2Config *oauth2.Config
	identity     Identity
	fetchUser    GoogleUserFetcher
	logger       *zap.Logger
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(cfg config.GoogleOAuthConfig, identity Identity, log *zap.Logger) *GoogleAuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	h := &GoogleAuthHandler{
		oauth2Config: oauth2Config,
		identity:     identity,
		logger:       log,
	}
	h.fetchUser = h.exchangeAndFetch
	return h
}

// WithUserFetcher replaces the Google exchange, mainly for tests
func (h *GoogleAuthHandler) WithUserFetcher(f GoogleUserFetcher) *GoogleAuthHandler {
	if f != nil {
		h.fetchUser = f
	}
	return h
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Returns the Google consent URL and sets a short-lived state cookie
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	// state parameter for CSRF protection
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{AuthURL: authURL, State: state})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchanges the code and signs in the admin whose active record has the same verified email
// @Tags authentication
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State parameter for CSRF protection"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Not an admin or unverified email"
// @Failure 502 {object} dto.ErrorResponse "Google unavailable"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid state", "OAuth state mismatch")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/api/auth/google", MaxAge: -1})

	userInfo, err := h.fetchUser(r.Context(), code)
	if err != nil {
		logger.WithContext(r.Context(), h.logger).Warn("google exchange failed", zap.Error(err))
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code", "Google rejected the authorization code")
			return
		}
		utils.WriteErrorResponse(w, http.StatusBadGateway, "Failed to get user info", "Google sign-in is unavailable")
		return
	}
	if !userInfo.Verified {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "unverified_email", "Google account email is not verified")
		return
	}

	session, err := h.identity.LoginWithEmail(r.Context(), userInfo.Email)
	if err != nil {
		respondWithMappedError(w, r, h.logger, err, authErrorCases)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, newAuthResponse(session))
}

// exchangeAndFetch trades the code for a token and reads the Google profile
func (h *GoogleAuthHandler) exchangeAndFetch(ctx context.Context, code string) (*dto.GoogleUserInfo, error) {
	token, err := h.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Verified: verified,
	}, nil
}
