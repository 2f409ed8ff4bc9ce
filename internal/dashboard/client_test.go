package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIClientChartData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chart-data" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "a@example.com" {
			t.Errorf("email = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chartData": [{"hour": 9, "total": 4, "converted": 2, "conversion_rate": 50}]}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, testLogger(t))
	rows, err := client.ChartData(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("ChartData: %v", err)
	}
	if len(rows) != 1 || rows[0].Hour != 9 || rows[0].ConversionRate != 50 {
		t.Errorf("rows = %v", rows)
	}
}

func TestAPIClientSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "email is required"}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, testLogger(t))
	_, err := client.ChartData(context.Background(), "")
	if err == nil || err.Error() != "email is required" {
		t.Errorf("err = %v, want the server message verbatim", err)
	}
}

func TestAPIClientFallbackErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, testLogger(t))
	_, err := client.ChartData(context.Background(), "a@example.com")
	if err == nil || err.Error() != "Failed to fetch chart data (status 502)" {
		t.Errorf("err = %v, want the fallback with status", err)
	}
}

func TestAPIClientUploadCalls(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload-calls" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, testLogger(t))
	events := json.RawMessage(`[{"timestamp": "2024-03-01T09:00:00Z", "converted": true}]`)
	if err := client.UploadCalls(context.Background(), "a@example.com", events); err != nil {
		t.Fatalf("UploadCalls: %v", err)
	}
	if string(got["email"]) != `"a@example.com"` {
		t.Errorf("posted email = %s", got["email"])
	}
	if len(got["events"]) == 0 {
		t.Error("events missing from posted body")
	}
}

func TestAPIClientUserGraphData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"exists": true, "data": [{"hour": "7 AM", "conversion": 12.5}]}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, testLogger(t))
	exists, points, err := client.UserGraphData(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("UserGraphData: %v", err)
	}
	if !exists || len(points) != 1 || points[0].Hour != "7 AM" || points[0].Conversion != 12.5 {
		t.Errorf("exists=%v points=%v", exists, points)
	}
}
