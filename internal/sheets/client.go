package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
)

const (
	defaultTimeout              = 30 * time.Second
	sheetParam                  = "sheet"
	requestIDHeader             = "X-Request-Id"
	errorBodyReadLimit    int64 = 1024
	responseBodyReadLimit int64 = 64 << 20
)

// Client reads rows from the spreadsheet web app. The endpoint answers
// GET <url>[?sheet=<name>] with {"success": true, "rows": [...]}.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each request. Ignored when a custom HTTP client is given.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient validates the endpoint URL and builds the client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sheets url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sheets url")
	}

	client := &Client{baseURL: trimmed, timeout: defaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}
	return client, nil
}

// SheetSource fetches one named sheet. An empty name asks the endpoint for its
// default sheet.
type SheetSource struct {
	client *Client
	name   string
}

// Sheet binds the client to a sheet name.
func (c *Client) Sheet(name string) SheetSource {
	return SheetSource{client: c, name: strings.TrimSpace(name)}
}

func (s SheetSource) Fetch(ctx context.Context) ([]dataset.RawRow, error) {
	return s.client.Fetch(ctx, s.name)
}

// Name is the sheet parameter sent, "" for the default sheet.
func (s SheetSource) Name() string {
	return s.name
}

type payload struct {
	Success bool            `json:"success"`
	Rows    json.RawMessage `json:"rows"`
	Error   string          `json:"error"`
}

// Fetch downloads the rows of sheet. Transport failures and non-2xx statuses
// are dependency errors; a body that is not {success: true, rows: [...]} is a
// data-shape error.
func (c *Client) Fetch(ctx context.Context, sheet string) ([]dataset.RawRow, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sheets client not configured")
	}

	endpoint, err := c.buildURL(sheet)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sheets request")
	}
	req.Header.Set("Accept", "application/json")
	if id := logger.RequestID(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute sheets request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "sheets request failed")
	}

	var body payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataShape, err, "decode sheets response")
	}
	if !body.Success {
		msg := "sheets endpoint reported failure"
		if body.Error != "" {
			msg = fmt.Sprintf("%s: %s", msg, body.Error)
		}
		return nil, pkgerrors.New(pkgerrors.CodeDataShape, msg).WithDetails(map[string]any{"sheet": sheet})
	}
	trimmed := strings.TrimSpace(string(body.Rows))
	if trimmed == "" || trimmed == "null" {
		return nil, pkgerrors.New(pkgerrors.CodeDataShape, "sheets response has no rows").WithDetails(map[string]any{"sheet": sheet})
	}

	var rows []dataset.RawRow
	if err := json.Unmarshal(body.Rows, &rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataShape, err, "decode sheets rows")
	}
	out := rows[:0]
	for _, row := range rows {
		if row != nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (c *Client) buildURL(sheet string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sheets url")
	}
	if sheet = strings.TrimSpace(sheet); sheet != "" {
		q := u.Query()
		q.Set(sheetParam, sheet)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
