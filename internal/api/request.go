package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// APIError represents a non-2xx response from the exchange API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange api error %d: %s", e.StatusCode, e.Message)
}

// IsUpstreamUnavailable reports whether err is a non-2xx exchange API
// response. Callers that treat "no data yet" as normal (the odds feed)
// use this to distinguish it from network or decode failures.
func IsUpstreamUnavailable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// doRequest performs a GET for the given action with extra query parameters.
func (c *Client) doRequest(ctx context.Context, action string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("action", action)
	fullURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Success is HTTP 200 only; everything else is upstream-unavailable.
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// get performs a GET for the action and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, action string, query url.Values, result any) error {
	body, err := c.doRequest(ctx, action, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", action, err)
	}

	return nil
}
