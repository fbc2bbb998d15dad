package hubnet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"iget-admin/internal/common/hubnetprotocol"
	"iget-admin/pkg/logging"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrServiceUnavailable  = errors.New("status checker unavailable")
)

type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

type Config struct {
	// CheckerURL is the full transaction-checker endpoint.
	CheckerURL        string
	Token             string
	RequestsPerSecond float64
	Timeout           time.Duration
}

type Checker struct {
	http    *resty.Client
	limiter *RateLimiter
	breaker *gobreaker.CircuitBreaker
	logger  *logging.ZapLogger
	cfg     Config
}

func New(cfg Config, logger *logging.ZapLogger) *Checker {
	httpClient := resty.New().SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Checker{
		http:    httpClient,
		limiter: NewRateLimiter(limit),
		breaker: newCircuitBreaker(logger),
		logger:  logger,
		cfg:     cfg,
	}
}

func newCircuitBreaker(logger *logging.ZapLogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "hubnet-transaction-checker",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrTransactionNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WarnCtx(
				context.Background(),
				"circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func (c *Checker) CheckTransaction(ctx context.Context, reference string) (hubnetprotocol.Transaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return hubnetprotocol.Transaction{}, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.checkTransaction(ctx, reference)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return hubnetprotocol.Transaction{}, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		}
		return hubnetprotocol.Transaction{}, err
	}
	transaction, ok := res.(hubnetprotocol.Transaction)
	if !ok {
		return hubnetprotocol.Transaction{}, errors.New("unexpected transaction type")
	}
	return transaction, nil
}

func (c *Checker) checkTransaction(ctx context.Context, reference string) (hubnetprotocol.Transaction, error) {
	resp, err := c.http.
		R().
		SetContext(ctx).
		SetAuthToken(c.cfg.Token).
		SetQueryParam("reference", reference).
		Get(c.cfg.CheckerURL)
	if err != nil {
		return hubnetprotocol.Transaction{}, fmt.Errorf("get request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	switch statusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return hubnetprotocol.Transaction{}, ErrTransactionNotFound
	case http.StatusTooManyRequests:
		retryAfter := ParseRetryAfter(resp.Header())
		c.limiter.BlockFor(retryAfter)
		return hubnetprotocol.Transaction{}, &RateLimitError{RetryAfter: retryAfter}
	default:
		return hubnetprotocol.Transaction{}, fmt.Errorf("%w: unexpected status code %v", ErrServiceUnavailable, statusCode)
	}

	res := hubnetprotocol.TransactionResponse{}
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		c.logger.ErrorCtx(ctx, "Error unmarshalling transaction response", zap.Error(err))
		return hubnetprotocol.Transaction{}, fmt.Errorf("error unmarshalling transaction response: %w", err)
	}
	if !res.Status {
		c.logger.DebugCtx(ctx, "Transaction not found", zap.String("reference", reference), zap.String("message", res.Message))
		return hubnetprotocol.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, res.Message)
	}
	c.logger.DebugCtx(ctx, "Transaction found", zap.String("reference", reference), zap.Any("transaction", res.Data))
	return res.Data, nil
}
