package proctor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
)

// APIClient is the assessment backend as seen from the controller: blocking
// request/response calls for starting and submitting a session.
type APIClient interface {
	StartTest(ctx context.Context, userID uint) (*dto.StartTestResponse, error)
	SubmitTest(ctx context.Context, req dto.SubmitTestRequest) (*dto.TestResultDTO, error)
}

type httpAPIClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPAPIClient talks to the gin API under baseURL (e.g. "http://localhost:8080").
func NewHTTPAPIClient(baseURL string) APIClient {
	return &httpAPIClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpAPIClient) StartTest(ctx context.Context, userID uint) (*dto.StartTestResponse, error) {
	var resp dto.StartTestResponse
	err := c.postJSON(ctx, "/api/v1/tests/start", dto.StartTestRequest{UserID: userID}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpAPIClient) SubmitTest(ctx context.Context, req dto.SubmitTestRequest) (*dto.TestResultDTO, error) {
	var resp dto.TestResultDTO
	if err := c.postJSON(ctx, "/api/v1/tests/submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpAPIClient) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// decodeAPIError maps the server's status codes back onto the shared error
// taxonomy so the controller can react with errors.Is.
func decodeAPIError(resp *http.Response, path string) error {
	var apiErr dto.ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(raw)
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = apperr.ErrNotFound
	case http.StatusConflict:
		sentinel = apperr.ErrConflict
	case http.StatusBadRequest:
		sentinel = apperr.ErrInvalidSession
	case http.StatusPreconditionFailed:
		sentinel = apperr.ErrPreconditionFailed
	default:
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%s: %s: %w", path, apiErr.Message, sentinel)
}
