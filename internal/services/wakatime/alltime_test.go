package wakatime

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestFetchAllTime_NoAPIKey(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no network call should happen without an api key")
		return nil, nil
	})

	result := client.FetchAllTime(context.Background(), "")
	if result.Err == nil {
		t.Fatal("expected a no-api-key error result")
	}
	if result.Err.Status != 0 {
		t.Errorf("no-api-key result should not carry a status, got %d", result.Err.Status)
	}
}

func TestFetchAllTime_Success(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/api/v1/users/current/all_time_since_today") {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		if !strings.HasPrefix(req.Header.Get("Authorization"), "Basic ") {
			t.Error("all time endpoint requires Basic auth")
		}
		return jsonResponse(200, `{"data":{"total_seconds":5958000.5,"text":"1655 hrs","daily_average":7200}}`), nil
	})

	result := client.FetchAllTime(context.Background(), "k")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.TotalSeconds != 5958001 {
		t.Errorf("TotalSeconds = %d, want rounded 5958001", result.TotalSeconds)
	}
	if result.Text != "1655 hrs" || result.DailyAverage != 7200 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestFetchAllTime_UpstreamFailureIsCaptured(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(500, `internal error`), nil
	})

	result := client.FetchAllTime(context.Background(), "k")
	if result.Err == nil {
		t.Fatal("expected captured error")
	}
	if result.Err.Status != 500 {
		t.Errorf("status = %d, want 500", result.Err.Status)
	}
}

func TestFetchAllTime_TransportFailureIsCaptured(t *testing.T) {
	client := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: timeout")
	})

	// Must return a structured error value, never propagate.
	result := client.FetchAllTime(context.Background(), "k")
	if result.Err == nil {
		t.Fatal("expected captured error")
	}
	if !strings.Contains(result.Err.Message, "timeout") {
		t.Errorf("message should carry the transport failure: %s", result.Err.Message)
	}
}
