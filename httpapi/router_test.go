package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/robertof/go-parasite-monitor/display"
)

type fakeHealth bool

func (f fakeHealth) Running() bool {
	return bool(f)
}

func TestThatHealthEndpointReturns204(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(newRouterForTesting(fakeHealth(true)))
	defer ts.Close()

	resp, _ := testRequest(is, ts, "GET", "/healthz", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent) // health endpoint status code not ok
}

func TestThatHealthEndpointReportsStoppedScan(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(newRouterForTesting(fakeHealth(false)))
	defer ts.Close()

	resp, _ := testRequest(is, ts, "GET", "/healthz", nil)

	is.Equal(resp.StatusCode, http.StatusServiceUnavailable)
}

func TestThatDisplayEndpointReturnsFrame(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(newRouterForTesting(fakeHealth(true)))
	defer ts.Close()

	resp, body := testRequest(is, ts, "GET", "/display", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, "header\nDevices (0 of 4 advertisements)\n")
}

func TestThatMetricsEndpointExposesRegistry(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(newRouterForTesting(fakeHealth(true)))
	defer ts.Close()

	resp, body := testRequest(is, ts, "GET", "/metrics", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "test_counter_total 1"))
}

func newRouterForTesting(health Health) http.Handler {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "Test."})
	counter.Inc()
	reg.MustRegister(counter)

	frame := &display.Frame{}
	_ = frame.DrawRow(display.RowHeader, "header")
	_ = frame.DrawRow(display.RowSummary, "Devices (0 of 4 advertisements)")

	return NewRouter(reg, frame, health)
}

func testRequest(is *is.I, ts *httptest.Server, method, path string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, body)
	is.NoErr(err)

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	is.NoErr(err)

	return resp, string(respBody)
}
