package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pagecraft/internal/css"
	"pagecraft/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// RemoteClient — optional sync with an existing site backend
// ─────────────────────────────────────────────────────────────

// RemoteClient talks to a site backend that owns the canonical page
// data. All requests carry the ambient CSRF token; a response whose
// body is HTML means the session expired and the call surfaces
// ErrAuthRequired instead of a normal failure.
type RemoteClient struct {
	baseURL   string
	csrfToken string
	client    *http.Client
}

// NewRemoteClient creates a client for baseURL.
func NewRemoteClient(baseURL, csrfToken string) *RemoteClient {
	return &RemoteClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		csrfToken: csrfToken,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// RemoteContent is the backend's load response.
type RemoteContent struct {
	Content json.RawMessage       `json:"content"`
	Widgets []domain.WidgetRecord `json:"widgets,omitempty"`
}

type remoteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoadContent fetches a page's tree and widget records.
func (c *RemoteClient) LoadContent(ctx context.Context, pageID string) (*RemoteContent, error) {
	var out RemoteContent
	if err := c.do(ctx, http.MethodGet, "/content/"+pageID, nil, &out); err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return &out, nil
}

// Save posts a full save payload.
func (c *RemoteClient) Save(ctx context.Context, payload *domain.SavePayload) error {
	var res remoteResult
	if err := c.do(ctx, http.MethodPost, "/save", payload, &res); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("save rejected: %s", res.Message)
	}
	return nil
}

// Publish marks the page published on the backend.
func (c *RemoteClient) Publish(ctx context.Context, pageID string) error {
	var res remoteResult
	body := map[string]string{"page_id": pageID}
	if err := c.do(ctx, http.MethodPost, "/publish", body, &res); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("publish rejected: %s", res.Message)
	}
	return nil
}

// GenerateCSS asks the backend to render CSS for many elements at once,
// keeping the preview in sync with server-side generation.
func (c *RemoteClient) GenerateCSS(ctx context.Context, reqs []css.Request) (string, error) {
	var out struct {
		CSS string `json:"css"`
	}
	if err := c.do(ctx, http.MethodPost, "/css/generate-bulk", reqs, &out); err != nil {
		return "", fmt.Errorf("generate css: %w", err)
	}
	return out.CSS, nil
}

func (c *RemoteClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRF-Token", c.csrfToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if isHTMLResponse(resp, data) {
		return domain.ErrAuthRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// isHTMLResponse detects the login page masquerading as an API
// response: an HTML content type, or a body that opens with markup.
func isHTMLResponse(resp *http.Response, body []byte) bool {
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return true
	}
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html")
}
