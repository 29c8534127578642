package backend

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

	"lacasita/internal/metrics"
	"lacasita/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://lacasitabooking.onrender.com"

// Client calls the La Casita booking API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a client timeout. Zero keeps the transport default (no timeout).
// The installed http.Client is copied, so a shared client is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRateLimit throttles outbound calls. rps <= 0 disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l *zerolog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	nop := zerolog.Nop()
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type recordEnvelope struct {
	Data *models.Record `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
}

// GetReservation fetches GET /api/reservations/{id}?token={token}.
func (c *Client) GetReservation(ctx context.Context, id, token string) (*models.Record, error) {
	endpoint := fmt.Sprintf("%s/api/reservations/%s?token=%s", c.baseURL, url.PathEscape(id), url.QueryEscape(token))

	var env recordEnvelope
	if err := c.doGet(ctx, OpGet, endpoint, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &BackendError{Op: OpGet, Status: http.StatusOK, Message: msgFetchFailed, Err: errors.New("response has no data")}
	}
	return env.Data, nil
}

// CreateReservation posts a payload to /api/reservations.
func (c *Client) CreateReservation(ctx context.Context, payload models.Payload) (*models.SubmitResult, error) {
	endpoint := fmt.Sprintf("%s/api/reservations", c.baseURL)

	var result models.SubmitResult
	if err := c.doPost(ctx, OpCreate, endpoint, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) doGet(ctx context.Context, op, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return transportError(op, err)
	}
	c.addHeaders(req)
	return c.do(op, req, out)
}

func (c *Client) doPost(ctx context.Context, op, endpoint string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return transportError(op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return transportError(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.addHeaders(req)
	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			metrics.ObserveBackend(op, metrics.OutcomeTransportError, 0)
			return transportError(op, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveBackend(op, metrics.OutcomeTransportError, elapsed)
		err = stripURL(err)
		c.logger.Warn().Err(err).Str("op", op).Str("method", req.Method).Str("path", req.URL.Path).Msg("backend request failed")
		return transportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveBackend(op, metrics.OutcomeTransportError, elapsed)
		return transportError(op, err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveBackend(op, metrics.OutcomeHTTPError, elapsed)
		var body errorBody
		_ = json.Unmarshal(raw, &body)
		return serverError(op, resp.StatusCode, body.Message)
	}

	metrics.ObserveBackend(op, metrics.OutcomeOK, elapsed)
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if op == OpCreate {
			// тело успешного ответа не обязано быть JSON
			return nil
		}
		return &BackendError{Op: op, Status: resp.StatusCode, Message: msgFetchFailed, Err: err}
	}
	return nil
}

// stripURL drops the request URL from a transport error; the query carries the access token.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
}
