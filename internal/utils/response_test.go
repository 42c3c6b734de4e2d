package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IG_DIRECTORY_BACK-END/internal/dto"
)

func TestWriteErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrorResponse(rr, http.StatusConflict, "duplicate_handle", "This handle has already been submitted")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "duplicate_handle", body.Error)
	assert.Equal(t, "This handle has already been submitted", body.Message)
}

func TestDecodeJSONRequest(t *testing.T) {
	var dst dto.SubmitProfileRequest

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"handle":"newuser123"}`))
	require.NoError(t, DecodeJSONRequest(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "newuser123", dst.Handle)

	for name, body := range map[string]string{
		"empty":   ``,
		"unknown": `{"handle":"a","admin":true}`,
		"broken":  `{"handle":`,
		"two":     `{"handle":"a"}{"handle":"b"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.Error(t, DecodeJSONRequest(httptest.NewRecorder(), req, &dto.SubmitProfileRequest{}), name)
	}
}

func TestClientIP_IgnoresHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	req.Header.Set("X-Real-IP", "2.2.2.2")
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	untrusting, err := NewClientIPResolver(nil)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", untrusting.ClientIP(req))
}

func TestClientIPResolver_TrustedProxy(t *testing.T) {
	resolver, err := NewClientIPResolver([]string{"10.0.0.0/8", "192.0.2.10"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		xff    []string
		realIP string
		want   string
	}{
		{name: "untrusted peer ignores headers", remote: "203.0.113.7:1", xff: []string{"1.1.1.1"}, realIP: "2.2.2.2", want: "203.0.113.7"},
		{name: "trusted peer uses forwarded hop", remote: "10.1.2.3:1", xff: []string{"198.51.100.4"}, want: "198.51.100.4"},
		{name: "spoofed left hop is skipped", remote: "10.1.2.3:1", xff: []string{"6.6.6.6, 198.51.100.4"}, want: "198.51.100.4"},
		{name: "trusted hops are walked", remote: "192.0.2.10:1", xff: []string{"198.51.100.4, 10.0.0.5"}, want: "198.51.100.4"},
		{name: "repeated headers are joined", remote: "10.1.2.3:1", xff: []string{"6.6.6.6", "198.51.100.4"}, want: "198.51.100.4"},
		{name: "all hops trusted", remote: "10.1.2.3:1", xff: []string{"10.0.0.9, 10.0.0.5"}, want: "10.0.0.9"},
		{name: "malformed hop falls back to real ip", remote: "10.1.2.3:1", xff: []string{"nope, 10.0.0.5"}, realIP: "198.51.100.8", want: "198.51.100.8"},
		{name: "real ip from trusted peer", remote: "10.1.2.3:1", realIP: "198.51.100.8", want: "198.51.100.8"},
		{name: "no headers", remote: "10.1.2.3:1", want: "10.1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, resolver.ClientIP(req))
		})
	}
}

func TestNewClientIPResolver_RejectsInvalid(t *testing.T) {
	_, err := NewClientIPResolver([]string{"10.0.0.0/33"})
	require.Error(t, err)
	_, err = NewClientIPResolver([]string{"proxy.internal"})
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Basic abc")
	_, ok = BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "bearer abc.def")
	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)
}
