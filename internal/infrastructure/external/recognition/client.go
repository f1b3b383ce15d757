// Package recognition implements clients for the sign recognition backend.
//
// Client talks to a remote recognition service over HTTP; StaticRecognizer
// answers locally and is used when no service is configured or the remote
// one is unavailable.
package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/circuitbreaker"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the remote recognizer client.
type ClientConfig struct {
	// BaseURL is the recognition service base URL.
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DTOs
// ══════════════════════════════════════════════════════════════════════════════

type feedbackRequestDTO struct {
	Frames       []json.RawMessage `json:"frames"`
	ExpectedSign string            `json:"expected_sign,omitempty"`
}

type feedbackResponseDTO struct {
	Recognized    bool     `json:"recognized"`
	PredictedSign string   `json:"predicted_sign"`
	Confidence    float64  `json:"confidence"`
	Accuracy      *float64 `json:"accuracy"`
	Suggestions   []string `json:"suggestions"`
}

// APIError is the error body returned by the recognition service.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("recognizer: status %d", e.StatusCode)
	}
	return fmt.Sprintf("recognizer: status %d: %s", e.StatusCode, e.Message)
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is a recognition.Recognizer backed by a remote HTTP service.
// Failed calls are retried; when the service stays unavailable the
// fallback recognizer answers instead.
type Client struct {
	http     *resty.Client
	retrier  *retry.Retrier
	breaker  *circuitbreaker.CircuitBreaker
	fallback recognition.Recognizer
	logger   *logger.Logger
}

// NewClient creates a remote recognizer client. fallback may be nil, in which
// case errors are returned to the caller.
func NewClient(cfg ClientConfig, fallback recognition.Recognizer) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	log := cfg.Logger.With(logger.Component("recognizer"))

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		http: httpClient,
		retrier: retry.RecognizerRetrier(
			retry.WithRetryIf(isRetryable),
			retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
				log.Warn("recognizer call failed, retrying",
					logger.Int("attempt", attempt),
					logger.Duration("delay", delay),
					logger.Err(err),
				)
			}),
		),
		breaker: circuitbreaker.RecognizerBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
		fallback: fallback,
		logger:   log,
	}
}

// Feedback implements recognition.Recognizer.
func (c *Client) Feedback(ctx context.Context, req recognition.FeedbackRequest) (*recognition.Feedback, error) {
	var result *recognition.Feedback

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			fb, err := c.call(ctx, req)
			if err != nil {
				return err
			}
			result = fb
			return nil
		})
	})
	if err == nil {
		return result, nil
	}

	if c.fallback == nil || ctx.Err() != nil {
		return nil, shared.WrapError("recognition", "Feedback", shared.ErrExternalService, "recognizer unavailable", err)
	}

	c.logger.Warn("recognizer unavailable, using fallback",
		logger.Bool("circuit_open", circuitbreaker.IsRejected(err)),
		logger.Err(err),
	)
	return c.fallback.Feedback(ctx, req)
}

// State reports the circuit breaker state for health output.
func (c *Client) State() string {
	return c.breaker.State().String()
}

func (c *Client) call(ctx context.Context, req recognition.FeedbackRequest) (*recognition.Feedback, error) {
	var out feedbackResponseDTO
	apiErr := &APIError{}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(feedbackRequestDTO{Frames: req.FrameData, ExpectedSign: req.ExpectedSign}).
		SetResult(&out).
		SetError(apiErr).
		Post("/v1/feedback")
	if err != nil {
		return nil, retry.Retryable(fmt.Errorf("recognizer request: %w", err))
	}

	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return nil, apiErr
	}

	return toFeedback(out, req.ExpectedSign), nil
}

func toFeedback(dto feedbackResponseDTO, expected string) *recognition.Feedback {
	confidence := clamp01(dto.Confidence)
	accuracy := confidence
	if dto.Accuracy != nil {
		accuracy = clamp01(*dto.Accuracy)
	}

	var isCorrect *bool
	if expected != "" {
		ok := dto.Recognized && dto.PredictedSign == expected
		isCorrect = &ok
	}

	suggestions := dto.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return &recognition.Feedback{
		Recognized:    dto.Recognized,
		PredictedSign: dto.PredictedSign,
		Confidence:    confidence,
		Details: recognition.FeedbackDetails{
			Accuracy:    accuracy,
			Suggestions: suggestions,
			IsCorrect:   isCorrect,
		},
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// isRetryable retries transport failures, rate limiting and server errors.
func isRetryable(err error) bool {
	if retry.IsRetryable(err) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}
