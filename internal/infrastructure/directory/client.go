package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AdvocateDirectory/internal/domain"
	"AdvocateDirectory/internal/ports"
)

const listPath = "/api/advocates"

// ErrMalformedResponse is returned when the listing body is not the expected
// {"data": [...]} envelope.
var ErrMalformedResponse = errors.New("malformed advocates response")

// StatusError reports a non-2xx answer from the listing endpoint.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// Client reads the advocate list from the listing endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.AdvocateSource = (*Client)(nil)

// NewClient creates a reusable HTTP client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchAdvocates issues a single GET for the full list. There is no retry.
func (c *Client) FetchAdvocates(ctx context.Context) ([]domain.Advocate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listPath, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("%w, close body: %v", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}, closeErr)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var envelope struct {
		Data *[]domain.Advocate `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		_ = resp.Body.Close()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("decode response: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}

	if err := resp.Body.Close(); err != nil {
		return nil, fmt.Errorf("close response body: %w", err)
	}

	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformedResponse)
	}

	advocates := *envelope.Data
	for i := range advocates {
		if advocates[i].Specialties == nil {
			advocates[i].Specialties = []string{}
		}
	}
	return advocates, nil
}
