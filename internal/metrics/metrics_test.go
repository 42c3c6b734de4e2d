package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IG_DIRECTORY_BACK-END/internal/services"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := New(Options{Registerer: reg, Gatherer: reg})
	require.NoError(t, err)
	return m, reg
}

func TestDirectoryCounters(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.SubmissionObserved(services.OutcomeCreated)
	m.SubmissionObserved(services.OutcomeCreated)
	m.SubmissionObserved(services.OutcomeDuplicate)
	m.ModerationObserved(services.ActionApproved)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Moderation.WithLabelValues("approved")))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(Options{Registerer: reg, Gatherer: reg})
	require.NoError(t, err)
	second, err := New(Options{Registerer: reg, Gatherer: reg})
	require.NoError(t, err)

	first.SubmissionObserved("created")
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Submissions.WithLabelValues("created")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m, reg := newTestMetrics(t)
	require.NoError(t, RegisterRuntime(reg))
	m.ModerationObserved(services.ActionDeleted)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `igdir_moderation_actions_total{action="deleted"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
