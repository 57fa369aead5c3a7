package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mealplanner/backend/config"
	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	detectPath      = "/v1/detect"
	maxAttempts     = 3
	limiterBurst    = 5
	defaultTimeout  = 10 * time.Second
	defaultFilename = "image.jpg"
)

// Client talks to the object detection service that labels food in images
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	backoff     func(attempt int) time.Duration
}

// detectResponse is the body returned by POST /v1/detect
type detectResponse struct {
	Detections []domain.Detection `json:"detections"`
}

// NewClient creates a detection client. requestsPerMinute bounds outgoing calls.
func NewClient(cfg config.DetectorConfig, requestsPerMinute int, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", "MealPlanner/1.0")
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		http:        httpClient,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), limiterBurst),
		logger:      logging.OrNop(logger),
		backoff:     exponentialBackoff,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s for attempts 1, 2, 3
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// Detect uploads an image and returns the detections. Transport errors, 429 and
// 5xx responses are retried; other statuses fail immediately.
func (c *Client) Detect(ctx context.Context, image []byte, filename string) ([]domain.Detection, error) {
	if filename == "" {
		filename = defaultFilename
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrDetectorFailure, err)
		}

		detections, retry, err := c.detectOnce(ctx, image, filename)
		if err == nil {
			c.logger.Debug("detector responded",
				zap.Int("attempt", attempt),
				zap.Int("detections", len(detections)),
			)
			return detections, nil
		}
		if !retry {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("detector request failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrDetectorFailure, ctx.Err())
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

// detectOnce performs a single upload. retry reports whether the failure is transient.
func (c *Client) detectOnce(ctx context.Context, image []byte, filename string) ([]domain.Detection, bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("image", filename, bytes.NewReader(image)).
		Post(detectPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("%w: %v", domain.ErrDetectorFailure, ctx.Err())
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrDetectorFailure, err)
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrDetectorFailure, status)
	case status != http.StatusOK:
		return nil, false, fmt.Errorf("%w: status %d, body: %s", domain.ErrDetectorFailure, status, truncate(resp.String(), 200))
	}

	var body detectResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrDetectorFailure, err)
	}
	return body.Detections, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ domain.ObjectDetector = (*Client)(nil)
