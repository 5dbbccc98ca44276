package box

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hanbatbox-cli/internal/config"
)

const maxResponseBytes = 10 << 20

// ProgressCallback reports upload progress
type ProgressCallback func(sent, total int64, percentage float64)

// Client talks to the box service.
// Ordinary calls use a bounded timeout; downloads use their own, unbounded by default,
// since the payload size is unknown ahead of time.
type Client struct {
	api        *retryablehttp.Client
	download   *retryablehttp.Client
	baseURL    string
	detectType bool
}

// retryLogger routes retryablehttp logs through logrus
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logrus.WithField("component", "http").Errorf("%s %v", msg, keysAndValues)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logrus.WithField("component", "http").Debugf("%s %v", msg, keysAndValues)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logrus.WithField("component", "http").Tracef("%s %v", msg, keysAndValues)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logrus.WithField("component", "http").Warnf("%s %v", msg, keysAndValues)
}

// NewClient creates a box service client from configuration
func NewClient(cfg *config.APIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("API endpoint is empty")
	}

	return &Client{
		api:        newRetryClient(cfg.MaxRetries, time.Duration(cfg.Timeout)*time.Second),
		download:   newRetryClient(cfg.MaxRetries, time.Duration(cfg.DownloadTimeout)*time.Second),
		baseURL:    strings.TrimSuffix(cfg.Endpoint, "/"),
		detectType: true,
	}, nil
}

// SetContentTypeDetection toggles per-file content type detection for uploads
func (c *Client) SetContentTypeDetection(enabled bool) {
	c.detectType = enabled
}

func newRetryClient(maxRetries int, timeout time.Duration) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = retryLogger{}
	// Hand every final response back so the status can be classified.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = timeout
	return rc
}

// CreateBox uploads a new box and returns its reference
func (c *Client) CreateBox(ctx context.Context, draft *Draft) (Ref, error) {
	return c.CreateBoxWithProgress(ctx, draft, nil)
}

// CreateBoxWithProgress uploads a new box, reporting file bytes sent through callback
func (c *Client) CreateBoxWithProgress(ctx context.Context, draft *Draft, callback ProgressCallback) (Ref, error) {
	const op = "create box"

	body, contentType, err := newMultipartBody(draft, c.detectType, callback)
	if err != nil {
		return Ref{}, &Error{Kind: KindRemoteFailure, Op: op, Err: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/boxes/uploads", body)
	if err != nil {
		return Ref{}, transportError(op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("Creating box %q with %d files", draft.Title, len(draft.Files))

	resp, err := c.do(c.api, req, op)
	if err != nil {
		return Ref{}, err
	}
	defer resp.Body.Close()

	var id int64
	if err := decodeData(resp.Body, &id); err != nil {
		return Ref{}, transportError(op, fmt.Errorf("failed to decode box id: %w", err))
	}
	if id == 0 {
		return Ref{}, transportError(op, fmt.Errorf("server returned no box id"))
	}

	logrus.Infof("Created box %d", id)
	return Ref{ID: id}, nil
}

// List returns one page of boxes matching q
func (c *Client) List(ctx context.Context, q Query) ([]Summary, error) {
	const op = "list boxes"

	params := url.Values{}
	if q.Cursor > 0 {
		params.Set("cursor", strconv.FormatInt(q.Cursor, 10))
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}

	endpoint := c.baseURL + "/boxes"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, transportError(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(c.api, req, op)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var boxes []Summary
	if err := decodeData(resp.Body, &boxes); err != nil {
		return nil, transportError(op, fmt.Errorf("failed to decode boxes: %w", err))
	}
	return boxes, nil
}

// Download fetches the contents of box id. A wrong password yields a KindUnauthorized error.
func (c *Client) Download(ctx context.Context, id int64, password string) (*Payload, error) {
	const op = "download box"

	req, err := c.passwordRequest(ctx, http.MethodPost, fmt.Sprintf("%s/boxes/%d/download", c.baseURL, id), password)
	if err != nil {
		return nil, transportError(op, err)
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.do(c.download, req, op)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Body:     resp.Body,
		Filename: filenameFromDisposition(resp.Header.Get("Content-Disposition"), id),
		Size:     resp.ContentLength,
	}, nil
}

// Delete removes box id when password matches
func (c *Client) Delete(ctx context.Context, id int64, password string) error {
	const op = "delete box"

	req, err := c.passwordRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/boxes/%d", c.baseURL, id), password)
	if err != nil {
		return transportError(op, err)
	}

	resp, err := c.do(c.api, req, op)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()

	logrus.Infof("Deleted box %d", id)
	return nil
}

func (c *Client) passwordRequest(ctx context.Context, method, endpoint, password string) (*retryablehttp.Request, error) {
	payload, err := json.Marshal(passwordRequest{Password: password})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes req and turns transport errors and non-2xx statuses into *Error.
// On success the caller owns resp.Body.
func (c *Client) do(client *retryablehttp.Client, req *retryablehttp.Request, op string) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		logrus.WithError(err).Errorf("%s: %s %s failed", op, req.Method, req.URL.Path)
		return nil, transportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		detail := readDetail(resp.Body)
		logrus.Debugf("%s: %s %s returned %d", op, req.Method, req.URL.Path, resp.StatusCode)
		return nil, statusError(op, resp.StatusCode, detail)
	}

	return resp, nil
}

// decodeData decodes r into v, unwrapping a {"data": ...} envelope when present.
// An envelope with null data leaves v untouched.
func decodeData(r io.Reader, v interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if data, ok := fields["data"]; ok {
			if string(data) == "null" {
				return nil
			}
			raw = data
		}
	}

	return json.Unmarshal(raw, v)
}

// readDetail extracts a human readable message from an error response body
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// filenameFromDisposition picks the suggested filename, falling back to box-<id>.zip
func filenameFromDisposition(header string, id int64) string {
	fallback := fmt.Sprintf("box-%d.zip", id)
	if header == "" {
		return fallback
	}

	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}

	name := params["filename"]
	if strings.Contains(name, "%") {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
