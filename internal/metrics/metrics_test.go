package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCounters(t *testing.T) {
	Cycles.WithLabelValues("ok").Inc()
	KeysSubmitted.Add(10)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	for _, metric := range []string{"cbminer_cycles_total", "cbminer_keys_submitted_total"} {
		if !strings.Contains(string(body), metric) {
			t.Errorf("scrape output missing %s", metric)
		}
	}
}
