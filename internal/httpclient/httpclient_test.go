package httpclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetSetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Options{AppVersion: "1.2.3"})
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if !strings.Contains(gotUA, "ConicApps/1.2.3") {
		t.Errorf("User-Agent = %q, want it to contain ConicApps/1.2.3", gotUA)
	}
}

func TestUserAgentDefaultsToDev(t *testing.T) {
	c := New(Options{})
	if c.UserAgent() != "ConicApps/dev" {
		t.Errorf("UserAgent() = %q, want ConicApps/dev", c.UserAgent())
	}
}
