package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"website_revolution/pkg/httpx"
	"website_revolution/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var (
	ErrRedesignNotFound = errors.New("redesign not found")

	// ErrTransport wraps every failure to reach the server or read its answer.
	ErrTransport = errors.New("transport error")
)

// APIError is a non-2xx answer carrying the server's error body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

type ExportFile struct {
	Filename string
	Data     []byte
}

// Client talks to the review API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

const defaultTimeout = 5 * time.Minute

func NewClient(baseURL string, opts ...httpx.Option) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...),
		},
	}
}

// Review returns the envelope for 2xx and envelope-shaped error answers alike.
func (c *Client) Review(ctx context.Context, location, niche string) (rest.BusinessesReviewResponse, error) {
	var out rest.BusinessesReviewResponse

	resp, body, err := c.do(ctx, http.MethodPost, "/api/businesses-review", rest.BusinessesReviewRequest{
		Location: location,
		Niche:    niche,
	})
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return out, apiError(resp, body)
		}

		return out, fmt.Errorf("%w: json.Unmarshal: %w", ErrTransport, err)
	}

	return out, nil
}

func (c *Client) Export(ctx context.Context, req rest.CSVExportRequest) (ExportFile, error) {
	resp, body, err := c.do(ctx, http.MethodPost, "/api/csv-file-export", req)
	if err != nil {
		return ExportFile{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return ExportFile{}, apiError(resp, body)
	}

	file := ExportFile{Data: body}

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		file.Filename = params["filename"]
	}

	return file, nil
}

func (c *Client) Redesign(ctx context.Context, filename string) (rest.Redesign, error) {
	resp, body, err := c.do(ctx, http.MethodGet, "/api/redesigns/"+url.PathEscape(filename), nil)
	if err != nil {
		return rest.Redesign{}, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		return rest.Redesign{}, ErrRedesignNotFound
	default:
		return rest.Redesign{}, apiError(resp, body)
	}

	var out rest.Redesign
	if err := json.Unmarshal(body, &out); err != nil {
		return rest.Redesign{}, fmt.Errorf("%w: json.Unmarshal: %w", ErrTransport, err)
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (*http.Response, []byte, error) {
	reqBody := io.Reader(http.NoBody)

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("json.Marshal: %w", err)
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: httpClient.Do: %w", ErrTransport, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: io.ReadAll: %w", ErrTransport, err)
	}

	return resp, body, nil
}

func apiError(resp *http.Response, body []byte) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}

	var payload rest.Error
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Code = string(payload.Code)
		e.Message = payload.Message
	}

	return e
}
