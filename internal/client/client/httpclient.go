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
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/models"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the API at baseURL (for example
// "http://127.0.0.1:5000"). timeout bounds every request except the
// event stream.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.Token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return &Error{Status: resp.StatusCode, Message: eb.Message, Fields: eb.Errors}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type tokenBody struct {
	Token string `json:"token"`
}

// Register creates an account and keeps the returned token.
func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	var tb tokenBody
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", models.Credentials{Email: email, Password: password}, &tb); err != nil {
		return err
	}
	c.SetToken(tb.Token)
	return nil
}

// Login keeps the returned token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var tb tokenBody
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", models.Credentials{Email: email, Password: password}, &tb); err != nil {
		return err
	}
	c.SetToken(tb.Token)
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CleanupUsers(ctx context.Context) (int64, error) {
	var out struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/auth/users/cleanup", nil, &out); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

func (c *HTTPClient) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *HTTPClient) ListVessels(ctx context.Context) ([]*models.Vessel, error) {
	var list []*models.Vessel
	if err := c.do(ctx, http.MethodGet, "/api/vessels", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetVessel(ctx context.Context, id string) (*models.Vessel, error) {
	var v models.Vessel
	if err := c.do(ctx, http.MethodGet, "/api/vessels/"+url.PathEscape(id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) CreateVessel(ctx context.Context, in models.VesselInput) (*models.Vessel, error) {
	var v models.Vessel
	if err := c.do(ctx, http.MethodPost, "/api/vessels", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) UpdateVessel(ctx context.Context, id string, patch models.VesselPatch) (*models.Vessel, error) {
	var v models.Vessel
	if err := c.do(ctx, http.MethodPut, "/api/vessels/"+url.PathEscape(id), patch, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) DeleteVessel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/vessels/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) SendServiceNotification(ctx context.Context, req models.ServiceNotificationRequest) (*models.NotificationResult, error) {
	var res models.NotificationResult
	if err := c.do(ctx, http.MethodPost, "/api/email/send-service-notification", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) SendCustomNotification(ctx context.Context, req models.CustomNotificationRequest) (*models.NotificationResult, error) {
	var res models.NotificationResult
	if err := c.do(ctx, http.MethodPost, "/api/email/send-custom-notification", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// IsUnavailable reports whether err is a transport failure rather than an
// API answer.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
