package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
)

const maxResponseBytes = 8 << 20

var backendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ohship_backend_request_duration_seconds",
	Help:    "Latency of calls to the shipping platform API",
	Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
}, []string{"method", "status"})

// APIClient talks to the shipping platform API. Responses use the
// {status, message, data} envelope; every failure is returned as an
// *apperrors.Error whose kind is decided here.
type APIClient interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}

type ClientOptions struct {
	BaseURL  string
	TenantID string
	Timeout  time.Duration
}

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

type apiClient struct {
	baseURL    string
	tenantID   string
	httpClient *http.Client
	buffers    BufferPool
	logger     *zap.Logger
}

func NewAPIClient(opts ClientOptions, buffers BufferPool, logger *zap.Logger) APIClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &apiClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tenantID:   opts.TenantID,
		httpClient: &http.Client{Timeout: timeout},
		buffers:    buffers,
		logger:     logger,
	}
}

func (c *apiClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *apiClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *apiClient) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, release, err := c.buffers.Acquire(ctx)
		if err != nil {
			return apperrors.Network("Unable to prepare request", err)
		}
		defer release()

		if err = json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf.Bytes())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tenantID != "" {
		req.Header.Set("X-Tenant-ID", c.tenantID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		backendRequestDuration.WithLabelValues(method, "error").Observe(time.Since(start).Seconds())
		c.logger.Error("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		if errors.Is(err, context.Canceled) {
			return apperrors.Network("Request was cancelled", err)
		}
		return apperrors.Network("Unable to reach the server, please try again", err)
	}
	defer resp.Body.Close()
	backendRequestDuration.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Network("Unable to read server response", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if decodeErr != nil {
			return apperrors.Network("Invalid response from server", decodeErr)
		}
		if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err = json.Unmarshal(env.Data, out); err != nil {
			return apperrors.Network("Invalid response from server", err)
		}
		return nil
	}

	return c.classify(resp.StatusCode, env, method, path)
}

func (c *apiClient) classify(status int, env envelope, method, path string) error {
	message := env.Message
	if message == "" {
		message = http.StatusText(status)
	}

	c.logger.Warn("backend request rejected",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("code", env.Code))

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(message)
	case env.Code != "":
		return apperrors.Business(env.Code, message, env.Data)
	case (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity) && len(env.Errors) > 0:
		return apperrors.Validation("", message, env.Errors)
	}

	return apperrors.Network(message, fmt.Errorf("unexpected status %d from %s %s", status, method, path))
}
