package igetapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"iget-admin/pkg/logging"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRequestFailed    = errors.New("request failed")
)

// ServerError carries the message returned by the iGet API.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) Unwrap() error {
	return ErrRequestFailed
}

type Config struct {
	ServerAddress string
	Timeout       time.Duration
}

type Client struct {
	http   *resty.Client
	logger *logging.ZapLogger
	cfg    Config
}

func New(cfg Config, logger *logging.ZapLogger) *Client {
	httpClient := resty.
		New().
		SetBaseURL(cfg.ServerAddress).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}
	return &Client{
		http:   httpClient,
		logger: logger,
		cfg:    cfg,
	}
}

type successFlag struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func send[T any](
	ctx context.Context,
	c *Client,
	token string,
	method string,
	path string,
	prepare func(r *resty.Request),
) (T, error) {
	var out T
	if token == "" {
		return out, ErrNotAuthenticated
	}

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return out, fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	body := resp.Body()
	if resp.IsError() {
		serverErr := newServerError(resp.StatusCode(), body)
		c.logger.DebugCtx(
			ctx,
			"iGet API returned an error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("message", serverErr.Message),
		)
		return out, serverErr
	}

	if len(body) == 0 {
		return out, nil
	}

	flag := successFlag{}
	if err := json.Unmarshal(body, &flag); err == nil && flag.Success != nil && !*flag.Success {
		return out, newServerError(resp.StatusCode(), body)
	}

	if err := json.Unmarshal(body, &out); err != nil {
		c.logger.ErrorCtx(ctx, "Error unmarshalling iGet response", zap.String("path", path), zap.Error(err))
		return out, fmt.Errorf("error unmarshalling %s response: %w", path, err)
	}
	return out, nil
}

func newServerError(statusCode int, body []byte) *ServerError {
	payload := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}
	_ = json.Unmarshal(body, &payload)

	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d %s", statusCode, http.StatusText(statusCode))
	}
	return &ServerError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// Message returns the human-readable text of an API error, falling back to a generic one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return "Not authenticated. Please sign in again."
	}
	return "Something went wrong. Please try again."
}
