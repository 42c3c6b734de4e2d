package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPLookupConfig configures the RapidAPI-style Instagram info endpoint
type HTTPLookupConfig struct {
	BaseURL string
	APIKey  string
	APIHost string
	Timeout time.Duration
}

// HTTPLookup fetches profile data from a third-party Instagram data provider
type HTTPLookup struct {
	cfg    HTTPLookupConfig
	client *http.Client
}

// NewHTTPLookup creates an HTTPLookup. A nil client gets one with cfg.Timeout.
func NewHTTPLookup(cfg HTTPLookupConfig, client *http.Client) *HTTPLookup {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPLookup{cfg: cfg, client: client}
}

type infoPayload struct {
	ProfilePicURL   string `json:"profile_pic_url"`
	ProfilePicURLHD string `json:"profile_pic_url_hd"`
	Biography       string `json:"biography"`
}

type infoResponse struct {
	infoPayload
	Data *infoPayload `json:"data"`
}

// FetchProfile implements ProfileLookup
func (l *HTTPLookup) FetchProfile(ctx context.Context, handle string) (ProfileData, error) {
	endpoint := fmt.Sprintf("%s/v1/info?username=%s", l.cfg.BaseURL, url.QueryEscape(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ProfileData{}, fmt.Errorf("%w: build request: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if l.cfg.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", l.cfg.APIKey)
	}
	if l.cfg.APIHost != "" {
		req.Header.Set("X-RapidAPI-Host", l.cfg.APIHost)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return ProfileData{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ProfileData{}, ErrNotFoundRemotely
	case resp.StatusCode == http.StatusTooManyRequests:
		return ProfileData{}, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return ProfileData{}, fmt.Errorf("%w: provider returned status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body infoResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return ProfileData{}, fmt.Errorf("%w: decode response: %v", ErrLookupFailed, err)
	}

	p := body.infoPayload
	if body.Data != nil {
		p = *body.Data
	}
	image := p.ProfilePicURLHD
	if image == "" {
		image = p.ProfilePicURL
	}
	if image == "" && p.Biography == "" {
		return ProfileData{}, ErrNotFoundRemotely
	}

	return ProfileData{ProfileImage: image, Bio: p.Biography}, nil
}
