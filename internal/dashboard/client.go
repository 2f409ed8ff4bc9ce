package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sachinottawa/call-agent-backend/internal/chart"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

// APIClient talks to the analytics backend the way the dashboard does: JSON
// over HTTP, surfacing the server's error message verbatim when one is
// present.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewAPIClient(baseURL string, log *logger.Logger) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With("service", "APIClient"),
	}
}

func (c *APIClient) ChartData(ctx context.Context, email string) ([]types.HourlyCallStat, error) {
	var out struct {
		ChartData []types.HourlyCallStat `json:"chartData"`
	}
	if err := c.getJSON(ctx, "/api/chart-data", email, "Failed to fetch chart data", &out); err != nil {
		return nil, err
	}
	return out.ChartData, nil
}

func (c *APIClient) CheckUpload(ctx context.Context, email string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := c.getJSON(ctx, "/api/check-upload", email, "Failed to check upload status", &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *APIClient) UserGraphData(ctx context.Context, email string) (bool, []chart.Point, error) {
	var out struct {
		Exists bool          `json:"exists"`
		Data   []chart.Point `json:"data"`
	}
	if err := c.getJSON(ctx, "/api/get-user-graph-data", email, "Failed to fetch graph data", &out); err != nil {
		return false, nil, err
	}
	return out.Exists, out.Data, nil
}

func (c *APIClient) UploadCalls(ctx context.Context, email string, events json.RawMessage) error {
	payload := map[string]any{"email": email, "events": events}
	return c.postJSON(ctx, "/api/upload-calls", payload, "Failed to upload call data")
}

func (c *APIClient) SaveGraphData(ctx context.Context, email string, data map[string]float64) error {
	payload := map[string]any{"email": email, "data": data}
	return c.postJSON(ctx, "/api/save-graph-data", payload, "Failed to save graph data")
}

func (c *APIClient) getJSON(ctx context.Context, path, email, fallback string, out any) error {
	u := c.baseURL + path + "?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, fallback, out)
}

func (c *APIClient) postJSON(ctx context.Context, path string, payload any, fallback string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, fallback, nil)
}

func (c *APIClient) do(req *http.Request, fallback string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("API request failed", "path", req.URL.Path, "error", err)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiResp) == nil && apiResp.Error != "" {
			c.log.Debug("API request rejected", "path", req.URL.Path, "status", resp.StatusCode, "message", apiResp.Error)
			return fmt.Errorf("%s", apiResp.Error)
		}
		c.log.Warn("API request failed", "path", req.URL.Path, "status", resp.StatusCode)
		return fmt.Errorf("%s (status %d)", fallback, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
