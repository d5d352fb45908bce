package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFileIngested(t *testing.T) {
	before := testutil.ToFloat64(filesIngestedTotal.WithLabelValues(StatusParseFailure))
	RecordFileIngested(StatusParseFailure)
	RecordFileIngested(StatusParseFailure)

	if got := testutil.ToFloat64(filesIngestedTotal.WithLabelValues(StatusParseFailure)) - before; got != 2 {
		t.Errorf("parse_failure delta = %v, want 2", got)
	}
}

func TestSetWorkspaceSize(t *testing.T) {
	SetWorkspaceSize(4, 2)

	if got := testutil.ToFloat64(workspaceDirectories); got != 4 {
		t.Errorf("directories = %v, want 4", got)
	}
	if got := testutil.ToFloat64(workspaceFiles); got != 2 {
		t.Errorf("files = %v, want 2", got)
	}
}

func TestHandler_ExposesCounters(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/tree", http.StatusOK, 5*time.Millisecond)
	RecordSearch(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`chemlab_http_requests_total{method="GET",route="/api/tree",status="200"}`,
		"chemlab_searches_total",
		"chemlab_search_hits_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
