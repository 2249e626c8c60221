package wakatime

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"wakadash/internal/models"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(cfg Config, rt func(req *http.Request) (*http.Response, error)) *Client {
	c := NewClient(cfg)
	c.httpClient = &http.Client{Transport: &MockRoundTripper{RoundTripFunc: rt}}
	return c
}

func TestResolveAuth_WithKey(t *testing.T) {
	subject, header, err := resolveAuth("alice", "secret-key")
	if err != nil {
		t.Fatalf("resolveAuth failed: %v", err)
	}
	if subject != "current" {
		t.Errorf("subject = %q, want current", subject)
	}
	// base64("secret-key:")
	if header != "Basic c2VjcmV0LWtleTo=" {
		t.Errorf("unexpected auth header: %q", header)
	}
}

func TestResolveAuth_PublicMode(t *testing.T) {
	subject, header, err := resolveAuth("alice", "")
	if err != nil {
		t.Fatalf("resolveAuth failed: %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject = %q, want alice", subject)
	}
	if header != "" {
		t.Errorf("public mode must not produce an auth header, got %q", header)
	}
}

func TestResolveAuth_MissingEverything(t *testing.T) {
	_, _, err := resolveAuth("", "")
	var missing *models.MissingParamError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingParamError, got %v", err)
	}
	if missing.Param != "username" {
		t.Errorf("missing param = %q, want username", missing.Param)
	}
}

func TestClient_FetchStats_PublicDefaultRange(t *testing.T) {
	var gotURL string
	var gotAuth string

	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(200, `{"data":{
			"total_seconds": 90000,
			"human_readable_total": "25 hrs",
			"daily_average": 12857.1,
			"languages": [
				{"name":"Go","total_seconds":54000,"hours":15,"minutes":0,"percent":60.0,"text":"15 hrs"},
				{"name":"Python","total_seconds":36000,"hours":10,"minutes":0,"percent":40.0,"text":"10 hrs"}
			]
		}}`), nil
	})

	// Unrecognized range string must coerce to the default before the fetch.
	rng := models.NormalizeRange("bogus")
	stats, err := client.FetchStats(context.Background(), StatsRequest{Username: "alice", Range: rng})
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	if !strings.Contains(gotURL, "/api/v1/users/alice/stats/last_7_days") {
		t.Errorf("unexpected URL: %s", gotURL)
	}
	if !strings.Contains(gotURL, "is_including_today=true") {
		t.Errorf("is_including_today must always be set, URL: %s", gotURL)
	}
	if gotAuth != "" {
		t.Errorf("public request must not carry Authorization, got %q", gotAuth)
	}

	if stats.Subject != "alice" || stats.Range != models.RangeLast7Days {
		t.Errorf("unexpected payload identity: %s/%s", stats.Subject, stats.Range)
	}
	if stats.TotalSeconds != 90000 {
		t.Errorf("TotalSeconds = %d, want 90000", stats.TotalSeconds)
	}
	if len(stats.Languages) != 2 || stats.Languages[0].Name != "Go" {
		t.Errorf("languages not preserved in upstream order: %+v", stats.Languages)
	}
}

func TestClient_FetchStats_Authenticated(t *testing.T) {
	var gotURL, gotAuth string

	client := newTestClient(Config{BaseURL: "https://waka.example.com/"}, func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(200, `{"data":{"total_seconds": 100}}`), nil
	})

	stats, err := client.FetchStats(context.Background(), StatsRequest{
		Username: "alice",
		APIKey:   "k",
		Range:    models.RangeAllTime,
	})
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	if !strings.HasPrefix(gotURL, "https://waka.example.com/api/v1/users/current/stats/all_time") {
		t.Errorf("trailing slash should be stripped and subject should be current: %s", gotURL)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Errorf("expected Basic auth header, got %q", gotAuth)
	}
	if stats.Subject != "current" {
		t.Errorf("subject = %q, want current", stats.Subject)
	}
	if stats.HumanReadableTotal == "" {
		t.Error("empty upstream text should be backfilled")
	}
}

func TestClient_FetchStats_NotFound(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(404, `{"error":"Not found"}`), nil
	})

	_, err := client.FetchStats(context.Background(), StatsRequest{Username: "ghost"})
	var notFound *models.UserNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected UserNotFoundError, got %v", err)
	}
	if notFound.Subject != "ghost" {
		t.Errorf("subject = %q, want ghost", notFound.Subject)
	}
}

func TestClient_FetchStats_MalformedBody(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"data": not json`), nil
	})

	_, err := client.FetchStats(context.Background(), StatsRequest{Username: "alice"})
	if err == nil {
		t.Fatal("expected parse error")
	}
	var notFound *models.UserNotFoundError
	if errors.As(err, &notFound) {
		t.Error("parse errors must not be translated to UserNotFoundError")
	}
}

func TestClient_FetchStats_TransportError(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.FetchStats(context.Background(), StatsRequest{Username: "alice"})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("transport errors should propagate, got %v", err)
	}
}

func TestClient_FetchStats_MissingIdentity(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request should be made without an identity")
		return nil, nil
	})

	_, err := client.FetchStats(context.Background(), StatsRequest{})
	var missing *models.MissingParamError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingParamError, got %v", err)
	}
}

func TestClient_FetchUser(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/api/v1/users/current") {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(200, `{"data":{"id":"u1","username":"alice","created_at":"2016-04-01T00:00:00Z"}}`), nil
	})

	user, err := client.FetchUser(context.Background(), "k")
	if err != nil {
		t.Fatalf("FetchUser failed: %v", err)
	}
	if user.Username != "alice" || user.CreatedAt.Year() != 2016 {
		t.Errorf("unexpected user: %+v", user)
	}
}
