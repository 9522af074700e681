package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

// Agent services expose one of a handful of entry points; the first
// one that answers with a non-404/405 status wins.
var entryPoints = []string{"run", "respond", "call", "execute", "generate"}

// Response bodies wrap the generated text under one of these keys.
var responseKeys = []string{"text", "message", "result", "output"}

var ErrNoEntryPoint = errors.New("agent exposes no usable entry point")

type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func NewClient(name, baseURL string) *Client {
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) Generate(ctx context.Context, payload domain.Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal agent request: %w", err)
	}

	var lastErr error = ErrNoEntryPoint
	for _, ep := range entryPoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+ep, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed:
			continue
		case resp.StatusCode >= 300:
			lastErr = fmt.Errorf("agent %s: %s returned %d", c.name, ep, resp.StatusCode)
			continue
		case readErr != nil:
			lastErr = readErr
			continue
		}

		return extractText(data), nil
	}

	return "", lastErr
}

// extractText pulls the generated message out of an agent response. A
// JSON object is searched for the known wrapper keys; anything else is
// returned as-is.
func extractText(data []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err == nil {
		for _, key := range responseKeys {
			if v, ok := obj[key]; ok {
				if s, ok := v.(string); ok {
					return s
				}
				return fmt.Sprintf("%v", v)
			}
		}
		return string(data)
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return string(data)
}
