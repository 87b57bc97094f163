// Package songle is the HTTP adapter for the Songle REST API (version 1).
// It issues GET requests against the widget endpoint and maps the camelCase
// JSON bodies onto domain song maps.
package songle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ewilliams-labs/songle/internal/core/domain"
	"github.com/ewilliams-labs/songle/internal/core/ports"
)

// DefaultBaseURL is the public Songle widget host.
const DefaultBaseURL = "https://widget.songle.jp"

const (
	maxBodyBytes    = 32 << 20
	maxErrorMessage = 512
)

// Client is an HTTP client for the Songle API. It holds no per-call state.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// compile-time interface assertion
var _ ports.SongMapProvider = (*Client)(nil)

// NewClient constructs a new Songle client. A nil httpClient falls back to
// http.DefaultClient and an empty baseURL to DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// BaseURL returns the host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// songParams builds the query shared by every song map endpoint.
func songParams(songURL string, revisionID int) url.Values {
	params := url.Values{}
	params.Set("url", songURL)
	if revisionID != domain.LatestRevision {
		params.Set("revision_id", strconv.Itoa(revisionID))
	}
	return params
}

// getJSON performs a GET against endpoint and decodes a successful body into out.
// Every failure is reported as *ports.APIError.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return &ports.APIError{Message: fmt.Sprintf("invalid request url: %v", err), Err: err}
	}
	reqURL.RawQuery = params.Encode()

	log.Printf("DEBUG songle adapter: request URL: %s", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return &ports.APIError{Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	// #nosec G107 -- URL constructed from configured Songle base URL
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(endpoint, "error", start)
		return &ports.APIError{Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer resp.Body.Close()
	observeRequest(endpoint, strconv.Itoa(resp.StatusCode), start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &ports.APIError{Message: fmt.Sprintf("read response: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorPayloadMessage(body)
		if msg == "" {
			msg = truncate(strings.TrimSpace(string(body)), maxErrorMessage)
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &ports.APIError{StatusCode: resp.StatusCode, Message: "error response from API: " + msg}
	}

	if msg := errorPayloadMessage(body); msg != "" {
		return &ports.APIError{StatusCode: resp.StatusCode, Message: "error payload from API: " + msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ports.APIError{Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}
	if v, ok := out.(shapeValidator); ok {
		if msg := v.shapeError(); msg != "" {
			return &ports.APIError{StatusCode: resp.StatusCode, Message: "unexpected response shape: " + msg}
		}
	}
	return nil
}

// shapeValidator is implemented by wire structs that can tell a decoded body
// apart from one that merely parsed, such as null or {}.
type shapeValidator interface {
	shapeError() string
}

// errorPayloadMessage extracts the message of an error body. An error is a
// non-empty "error" string or an "error" object with a message; a bare
// top-level "message" string counts only when "error" is absent.
// It returns "" for anything else, including boolean or numeric error flags.
func errorPayloadMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return ""
	}

	raw, ok := payload["error"]
	if !ok {
		return stringField(payload["message"])
	}
	if msg := stringField(raw); msg != "" {
		return msg
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return truncate(strings.TrimSpace(obj.Message), maxErrorMessage)
	}
	return ""
}

// stringField returns raw as a trimmed string, or "" when it is not a JSON string.
func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return truncate(strings.TrimSpace(s), maxErrorMessage)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
