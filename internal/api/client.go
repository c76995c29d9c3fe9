package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/ctxutil"
	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/metrics"
	"github.com/Spok95/safiro-portal/internal/observability"
)

const maxLoggedBody = 2048

// TokenProvider отдаёт bearer-токен для запроса. Пустая строка: без авторизации.
type TokenProvider func(ctx context.Context) (string, error)

// Client: тонкая обёртка над net/http для API Safiro. Одна попытка на вызов, без ретраев.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
	headers http.Header
	token   TokenProvider
}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = logging.OrNop(l) } }

func WithHeader(k, v string) Option { return func(c *Client) { c.headers.Set(k, v) } }

func WithTokenProvider(p TokenProvider) Option { return func(c *Client) { c.token = p } }

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = ctxutil.DefaultAPITimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		log:     zap.NewNop(),
		headers: http.Header{},
	}
	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	query   url.Values
	headers http.Header
}

// RequestOption: параметры отдельного вызова.
type RequestOption func(*request)

func Query(k, v string) RequestOption {
	return func(r *request) { r.query.Add(k, v) }
}

func Header(k, v string) RequestOption {
	return func(r *request) { r.headers.Set(k, v) }
}

func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, nil, &out, opts)
	return out, err
}

func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPost, path, body, &out, opts)
	return out, err
}

func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPut, path, body, &out, opts)
	return out, err
}

func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPatch, path, body, &out, opts)
	return out, err
}

func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	var out T
	err := c.do(ctx, http.MethodDelete, path, nil, &out, opts)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, opts []RequestOption) error {
	// таймаут на вызов целиком, включая чтение тела; дедлайн родителя не продлевается
	ctx, cancel := ctxutil.WithAPITimeout(ctx, c.timeout)
	defer cancel()

	rq := request{query: url.Values{}, headers: http.Header{}}
	for _, o := range opts {
		o(&rq)
	}

	req, err := c.newRequest(ctx, method, path, body, rq)
	if err != nil {
		c.fail(ctx, method, path, err)
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPI(method, 0, time.Since(start))
		c.fail(ctx, method, path, err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	raw, readErr := io.ReadAll(resp.Body)
	metrics.ObserveAPI(method, resp.StatusCode, time.Since(start))

	if resp.StatusCode/100 != 2 {
		se := newStatusError(method, path, resp.StatusCode, raw)
		c.fail(ctx, method, path, se)
		return se
	}
	if readErr != nil {
		c.fail(ctx, method, path, readErr)
		return readErr
	}
	if len(bytes.TrimSpace(raw)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		err = fmt.Errorf("%s %s: decode response: %w", method, path, err)
		c.fail(ctx, method, path, err)
		return err
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, rq request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(rq.query) > 0 {
		u += "?" + rq.query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range rq.headers {
		req.Header[k] = append([]string(nil), vs...)
	}

	reqID, ok := ctxutil.RequestID(ctx)
	if !ok || reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s %s: token: %w", method, path, err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// fail пишет диагностику; сама ошибка возвращается вызывающему без изменений.
func (c *Client) fail(ctx context.Context, method, path string, err error) {
	kind := KindOf(err)
	metrics.APIFailures.WithLabelValues(kind.String()).Inc()

	op, _ := ctxutil.Op(ctx)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("op", op),
	}
	if uid, ok := ctxutil.UserID(ctx); ok {
		fields = append(fields, zap.Int64("user_id", uid))
	}
	switch kind {
	case KindResponse:
		var se *StatusError
		_ = errors.As(err, &se)
		c.log.Error("api response error", append(fields,
			zap.Int("status", se.Status),
			zap.ByteString("body", truncate(se.Body, maxLoggedBody)),
		)...)
		if se.Status >= 500 {
			observability.CaptureWithTags(err, map[string]string{"method": method, "path": path, "op": op})
		}
	case KindNetwork:
		c.log.Error("api network error: no response from server", append(fields, zap.Error(err))...)
		observability.CaptureWithTags(err, map[string]string{"method": method, "path": path, "op": op})
	default:
		c.log.Error("api error", append(fields, zap.Error(err))...)
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
