package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"mentorship/internal/apierr"
	"mentorship/internal/logger"
)

// Default endpoint paths, relative to the base URL.
const (
	DefaultRefreshPath = "/Auth/refresh"
	DefaultLoginPath   = "/Auth/login"
	DefaultRevokePath  = "/Auth/revoke"
	DefaultTimeout     = 60 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	RefreshPath string
	LoginPath   string
	RevokePath  string

	// OnSessionExpired runs when a session refresh fails; it is where callers send the user back to login.
	OnSessionExpired func()

	// Transport overrides the HTTP transport (tests, proxies).
	Transport http.RoundTripper
}

// Client is the single configured HTTP client for the program API.
type Client struct {
	base        *url.URL
	http        *http.Client
	jar         http.CookieJar
	refreshPath string
	loginPath   string
	revokePath  string
	onExpired   func()
	refreshes   singleflight.Group
	log         zerolog.Logger
}

// Request describes one API call. Body is JSON-encoded once so it can be replayed verbatim.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// New creates a client with a cookie jar so the session cookie rides along on every call.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parse base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, pkgerrors.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create cookie jar")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
		jar:         jar,
		refreshPath: orDefault(opts.RefreshPath, DefaultRefreshPath),
		loginPath:   orDefault(opts.LoginPath, DefaultLoginPath),
		revokePath:  orDefault(opts.RevokePath, DefaultRevokePath),
		onExpired:   opts.OnSessionExpired,
		log:         logger.Get().With().Str("component", "apiclient").Logger(),
	}, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Do sends req, transparently refreshing an expired session once and replaying the request.
// The raw response body of a successful call is returned.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "marshal request")
		}
		payload = data
	}
	requestID := uuid.NewString()

	status, body, err := c.send(ctx, req, payload, requestID)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && c.refreshable(req.Path) {
		if rerr := c.refresh(ctx); rerr != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, &apierr.NetworkError{Op: req.Method, URL: c.url(req.Path, req.Query), Timeout: isTimeout(cerr), Err: cerr}
			}
			var ne *apierr.NetworkError
			if errors.As(rerr, &ne) {
				c.log.Warn().Err(rerr).Str("path", req.Path).Msg("session refresh did not reach the api")
				return nil, ne
			}
			c.log.Warn().Err(rerr).Str("path", req.Path).Msg("session refresh rejected")
			c.sessionExpired(req.Path)
			se := apierr.FromResponse(status, body)
			se.Kind = apierr.ErrAuth
			return nil, se
		}
		status, body, err = c.send(ctx, req, payload, requestID)
		if err != nil {
			return nil, err
		}
	}

	if status >= 300 {
		return nil, apierr.FromResponse(status, body)
	}
	return body, nil
}

// Exec sends req and discards the response body.
func (c *Client) Exec(ctx context.Context, req Request) error {
	_, err := c.Do(ctx, req)
	return err
}

func (c *Client) refreshable(path string) bool {
	return path != c.refreshPath && path != c.loginPath
}

func (c *Client) sessionExpired(path string) {
	if c.onExpired == nil || path == c.loginPath {
		return
	}
	c.onExpired()
}

// refresh renews the session cookie. Concurrent callers share a single refresh call, which runs
// detached from any one caller's cancellation and is bounded by the client timeout instead. A caller
// whose ctx ends stops waiting and gets ctx.Err().
func (c *Client) refresh(ctx context.Context) error {
	ch := c.refreshes.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.http.Timeout)
		defer cancel()
		status, body, err := c.send(rctx, Request{Method: http.MethodPost, Path: c.refreshPath}, nil, uuid.NewString())
		if err != nil {
			refreshTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		if status >= 300 {
			refreshTotal.WithLabelValues("rejected").Inc()
			return nil, apierr.FromResponse(status, body)
		}
		refreshTotal.WithLabelValues("ok").Inc()
		c.log.Info().Msg("session refreshed")
		return nil, nil
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.log.Debug().Msg("joined in-flight session refresh")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) send(ctx context.Context, req Request, payload []byte, requestID string) (int, []byte, error) {
	target := c.url(req.Path, req.Query)

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reqBody)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(err, "create request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	requestDuration.WithLabelValues(req.Method).Observe(elapsed.Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		return 0, nil, &apierr.NetworkError{Op: req.Method, URL: target, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		return 0, nil, &apierr.NetworkError{Op: req.Method, URL: target, Timeout: isTimeout(err), Err: err}
	}
	requestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Str("request_id", requestID).
		Msg("api call")

	return resp.StatusCode, body, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
