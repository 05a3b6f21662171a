package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/recipes", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/recipes", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/recipes", "200")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
}

func TestRelationChanged(t *testing.T) {
	m := New()
	m.RelationChanged("favorite", "add", OutcomeOK)
	m.RelationChanged("favorite", "add", OutcomeDuplicate)
	m.RelationChanged("favorite", "add", OutcomeDuplicate)

	if got := testutil.ToFloat64(m.RelationChanges.WithLabelValues("favorite", "add", OutcomeDuplicate)); got != 2 {
		t.Errorf("duplicates = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ShoppingListDownloads.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"shopping_list_downloads_total 1", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
