package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
)

// Config holds the connection settings for the grant portal API.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8000/api",
		Timeout:    30 * time.Second,
		MaxRetries: 1,
	}
}

// Client talks to the grant portal REST API. It implements
// app.Persistence and app.Dashboard.
type Client struct {
	cfg      Config
	http     *http.Client
	creds    app.CredentialSource
	observer Observer
}

var (
	_ app.Persistence = (*Client)(nil)
	_ app.Dashboard   = (*Client)(nil)
)

func NewClient(cfg Config, creds app.CredentialSource, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		creds:    creds,
		observer: observer,
	}
}

type request struct {
	method    string
	path      string
	query     url.Values
	body      app.Record
	files     []app.FileUpload
	multipart bool
}

// response is the decoded {success, message, data} envelope. Endpoints
// that reply without an envelope have the whole body in Data.
type response struct {
	Message string
	Data    json.RawMessage
}

type envelope struct {
	Success *bool           `json:"success"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, req request) (*response, error) {
	start := time.Now()

	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	var (
		resp    *response
		status  int
		lastErr error
		tries   int
	)
	for tries < attempts {
		tries++
		resp, status, lastErr = c.doRequest(ctx, req)
		if lastErr == nil || ctx.Err() != nil || !retryable(lastErr) {
			break
		}
	}

	c.observer.OnRequestComplete(RequestEvent{
		Method:     req.method,
		Path:       req.path,
		StatusCode: status,
		Attempts:   tries,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    lastErr == nil,
		ErrorCode:  errorCode(lastErr),
	})

	if lastErr == nil {
		return resp, nil
	}
	if isConnectionError(lastErr) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, req request) (*response, int, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, 0, err
	}

	u := c.cfg.BaseURL + "/" + strings.TrimPrefix(req.path, "/")
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("loading credentials: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", bearer(token))
		}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, httpResp.StatusCode, &StatusError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: httpResp.StatusCode,
			Message:    messageFrom(raw),
		}
	}

	resp, err := decodeEnvelope(raw)
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	if resp == nil {
		return &response{}, httpResp.StatusCode, nil
	}
	if resp.failed {
		return nil, httpResp.StatusCode, &StatusError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: httpResp.StatusCode,
			Message:    resp.Message,
		}
	}
	return &resp.response, httpResp.StatusCode, nil
}

type decoded struct {
	response
	failed bool
}

func decodeEnvelope(raw []byte) (*decoded, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return &decoded{response: response{Data: json.RawMessage(trimmed)}}, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	d := &decoded{response: response{Message: env.Message, Data: env.Data}}
	if env.Success != nil && !*env.Success || env.Status == "error" {
		d.failed = true
	}
	if len(env.Data) == 0 {
		d.Data = json.RawMessage(trimmed)
	}
	return d, nil
}

func encodeBody(req request) (io.Reader, string, error) {
	if req.multipart {
		return encodeMultipart(req.body, req.files)
	}
	if req.body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(req.body)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// encodeMultipart writes scalar fields as-is and JSON-encodes objects and
// lists, followed by the file parts.
func encodeMultipart(fields app.Record, files []app.FileUpload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok, err := formValue(fields[k])
		if err != nil {
			return nil, "", fmt.Errorf("encoding field %s: %w", k, err)
		}
		if !ok {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", k, err)
		}
	}

	for _, f := range files {
		if err := attachFile(w, f); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, f app.FileUpload) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s for %s: %w", f.Path, f.Field, err)
	}
	defer src.Close()

	part, err := w.CreateFormFile(f.Field, filepath.Base(f.Path))
	if err != nil {
		return fmt.Errorf("creating file part %s: %w", f.Field, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copying %s: %w", f.Path, err)
	}
	return nil
}

func formValue(v any) (string, bool, error) {
	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return t, true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true, nil
	case int:
		return strconv.Itoa(t), true, nil
	case int64:
		return strconv.FormatInt(t, 10), true, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// bearer adds the "Bearer " scheme unless the token already carries it.
func bearer(token string) string {
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}

func messageFrom(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.Message, body.Detail, body.Error} {
			if m != "" {
				return m
			}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, app.ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, app.ErrNotFound):
		return "NOT_FOUND"
	case errors.As(err, &se):
		return "STATUS_" + strconv.Itoa(se.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case isConnectionError(err):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// record decodes a data payload into a Record. Null or empty data yields
// an empty record.
func record(raw json.RawMessage) (app.Record, error) {
	rec := app.Record{}
	if len(raw) == 0 || string(raw) == "null" {
		return rec, nil
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return rec, nil
}

// records decodes a data payload that is either a list or an object
// wrapping a list under one of keys.
func records(raw json.RawMessage, keys ...string) ([]app.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []any
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return app.Record{"items": list}.Records("items"), nil
	}
	rec, err := record(trimmed)
	if err != nil {
		return nil, err
	}
	return rec.Records(keys...), nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
