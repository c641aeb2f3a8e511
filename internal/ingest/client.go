package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "http://localhost:3001/api"

	healthTimeout  = 5 * time.Second
	saveTimeout    = 30 * time.Second
	summaryTimeout = 10 * time.Second
)

// Client talks to the VOC ingestion API.
type Client struct {
	baseURL    string
	endpoint   Endpoint
	httpClient *http.Client
	logger     *slog.Logger
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// NewClient returns a client for baseURL posting to endpoint.
func NewClient(baseURL string, endpoint Endpoint, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if endpoint == "" {
		endpoint = EndpointSaveConversation
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     logger,
		maxRetries: 3,
		backoff:    backoff,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, timeout time.Duration) ([]byte, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path
	c.logger.Debug("ingest API request", "method", method, "path", path)

	var resp *http.Response
	requestStart := time.Now()
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		req, err := http.NewRequestWithContext(reqCtx, method, url, bytes.NewReader(payload))
		if err != nil {
			cancel()
			return nil, fmt.Errorf("creating request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			cancel()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt == c.maxRetries {
				c.logger.Error("API request transport error", "method", method, "path", path, "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("sending request: %w", err)
			}
			c.logger.Debug("API request transport error, retrying", "method", method, "path", path, "attempt", attempt+1, "error", err)
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			cancel()
			if attempt == c.maxRetries {
				c.logger.Error("API request failed after retries", "method", method, "path", path, "status", resp.StatusCode, "attempts", c.maxRetries+1, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("API returned status %d after %d retries", resp.StatusCode, c.maxRetries)
			}
			c.logger.Debug("API request retryable error", "method", method, "path", path, "status", resp.StatusCode, "attempt", attempt+1)
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		c.logger.Debug("ingest API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("API request failed", "method", method, "path", path, "status", resp.StatusCode, "response", truncate(string(respBody), 200))
			return nil, &StatusError{Status: resp.StatusCode, Body: truncate(string(respBody), 200)}
		}
		return respBody, nil
	}
	return nil, fmt.Errorf("API request %s %s: no attempts made", method, path)
}

// StatusError is a non-200, non-retryable response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Status, e.Body)
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/health", nil, healthTimeout); err != nil {
		return fmt.Errorf("checking service health: %w", err)
	}
	return nil
}

// Save posts one record to the configured endpoint. The API must answer
// {"success": true}.
func (c *Client) Save(ctx context.Context, p Payload) error {
	data, err := c.doRequest(ctx, http.MethodPost, "/"+string(c.endpoint), p, saveTimeout)
	if err != nil {
		return fmt.Errorf("saving %s: %w", p.ID(), err)
	}

	res := gjson.ParseBytes(data)
	if !res.Get("success").Bool() {
		msg := res.Get("message").String()
		if msg == "" {
			msg = res.Get("error").String()
		}
		if msg == "" {
			msg = "Unknown error"
		}
		return fmt.Errorf("saving %s: %w", p.ID(), &RejectedError{Message: msg})
	}
	return nil
}

// RejectedError is a 200 response with success=false.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "API rejected record: " + e.Message
}

// Consultation is one row of the consultations listing.
type Consultation struct {
	SourceID        string `json:"sourceId"`
	ClientGender    string `json:"clientGender"`
	ClientAge       string `json:"clientAge"`
	ConsultingTurns string `json:"consultingTurns"`
}

// Consultations returns the stored consultation count and up to limit of the
// most recent rows.
func (c *Client) Consultations(ctx context.Context, limit int) (int, []Consultation, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/consultations", nil, summaryTimeout)
	if err != nil {
		return 0, nil, fmt.Errorf("listing consultations: %w", err)
	}

	res := gjson.ParseBytes(data)
	if !res.Get("success").Bool() {
		return 0, nil, fmt.Errorf("listing consultations: %w", &RejectedError{Message: res.Get("message").String()})
	}

	rows := res.Get("data.vocRaws").Array()
	var recent []Consultation
	for i, row := range rows {
		if i >= limit {
			break
		}
		recent = append(recent, Consultation{
			SourceID:        orUnknown(row.Get("sourceId")),
			ClientGender:    orUnknown(row.Get("clientGender")),
			ClientAge:       orUnknown(row.Get("clientAge")),
			ConsultingTurns: orUnknown(row.Get("consultingTurns")),
		})
	}
	return len(rows), recent, nil
}

func orUnknown(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return "Unknown"
	}
	return v.String()
}
