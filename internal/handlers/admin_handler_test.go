package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"IG_DIRECTORY_BACK-END/internal/dto"
	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/services"
)

func adminMux(h *AdminHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/profiles/pending", h.ListPending)
	mux.HandleFunc("GET /api/admin/profiles/approved", h.ListApproved)
	mux.HandleFunc("GET /api/admin/stats", h.Stats)
	mux.HandleFunc("POST /api/admin/profiles/{id}/approve", h.Approve)
	mux.HandleFunc("POST /api/admin/profiles/{id}/reject", h.Reject)
	mux.HandleFunc("DELETE /api/admin/profiles/{id}", h.Delete)
	return mux
}

func serve(mux http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestAdmin_ListsIncludeEmail(t *testing.T) {
	dir := &fakeDirectory{profiles: []models.Profile{sampleProfile("a"), sampleProfile("b")}}
	mux := adminMux(NewAdminHandler(dir, zaptest.NewLogger(t)))

	for _, path := range []string{"/api/admin/profiles/pending", "/api/admin/profiles/approved"} {
		rr := serve(mux, http.MethodGet, path)
		require.Equal(t, http.StatusOK, rr.Code, path)
		body := decodeBody[dto.ProfileListResponse](t, rr)
		require.Len(t, body.Profiles, 2)
		require.NotNil(t, body.Profiles[0].Email)
		assert.Equal(t, "a@example.com", *body.Profiles[0].Email)
	}
	assert.Equal(t, services.ListOptions{}, dir.lastList)
}

func TestAdmin_Stats(t *testing.T) {
	dir := &fakeDirectory{stats: services.DirectoryStats{Pending: 2, Approved: 7}}
	rr := serve(adminMux(NewAdminHandler(dir, zaptest.NewLogger(t))), http.MethodGet, "/api/admin/stats")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, dto.StatsResponse{Pending: 2, Approved: 7}, decodeBody[dto.StatsResponse](t, rr))
}

func TestAdmin_Moderation(t *testing.T) {
	dir := &fakeDirectory{}
	mux := adminMux(NewAdminHandler(dir, zaptest.NewLogger(t)))
	id := uuid.New()

	rr := serve(mux, http.MethodPost, "/api/admin/profiles/"+id.String()+"/approve")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, dir.lastID)
	assert.Equal(t, "approved", decodeBody[dto.ProfileResponse](t, rr).Status)

	rr = serve(mux, http.MethodPost, "/api/admin/profiles/"+id.String()+"/reject")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, dir.rejected)

	rr = serve(mux, http.MethodDelete, "/api/admin/profiles/"+id.String())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, dir.deleted)
}

func TestAdmin_ModerationErrors(t *testing.T) {
	mux := adminMux(NewAdminHandler(&fakeDirectory{err: services.ErrNotFound}, zaptest.NewLogger(t)))
	id := uuid.New().String()

	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodPost, "/api/admin/profiles/"+id+"/approve").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodPost, "/api/admin/profiles/"+id+"/reject").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodDelete, "/api/admin/profiles/"+id).Code)

	rr := serve(mux, http.MethodPost, "/api/admin/profiles/not-a-uuid/approve")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_id", decodeBody[dto.ErrorResponse](t, rr).Error)

	down := adminMux(NewAdminHandler(&fakeDirectory{err: services.ErrBackendUnavailable}, zaptest.NewLogger(t)))
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, http.MethodGet, "/api/admin/stats").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, http.MethodGet, "/api/admin/profiles/pending").Code)
}
