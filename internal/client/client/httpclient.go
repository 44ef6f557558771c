package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountd/internal/client/models"
	"github.com/dmitrijs2005/accountd/internal/common"
)

// HTTPClient talks to the accountd HTTP/JSON endpoint.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPClient validates serverURL ("http://host:port") and returns a
// client whose requests give up after timeout.
func NewHTTPClient(serverURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", serverURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", serverURL)
	}
	return &HTTPClient{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPClient) Register(ctx context.Context, username string, password []byte) (*models.User, error) {
	var u models.User
	body := credentials{Username: username, Password: string(password)}
	if err := c.do(ctx, http.MethodPost, "/register", nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	var tr tokenResponse
	body := credentials{Username: username, Password: string(password)}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &tr); err != nil {
		return "", err
	}
	return tr.Token, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	users := []models.User{}
	q := url.Values{common.TokenQueryParam: {token}}
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, token string, id int64) error {
	q := url.Values{common.TokenQueryParam: {token}}
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), q, nil, nil)
}

// Health reports whether the server answers its liveness probe.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// do sends one request and decodes a 200 JSON answer into out (if non-nil).
// Other statuses become sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var d detailResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&d)
	detail := d.Detail
	if detail == "" {
		detail = resp.Status
	}

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		sentinel = ErrAlreadyExists
	case resp.StatusCode == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		sentinel = ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity:
		sentinel = ErrInvalidRequest
	case resp.StatusCode >= http.StatusInternalServerError:
		sentinel = ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}
