package domain

import "errors"

var (
	// ErrInvalidInput is returned when biometric fields cannot be coerced to numbers
	ErrInvalidInput = errors.New("invalid biometric input")

	// ErrInvalidRequest is returned when request parameters are missing or malformed
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrFoodNotFound is returned when a name has no catalog entry
	ErrFoodNotFound = errors.New("food not found in catalog")

	// ErrCatalogUnavailable is returned when the food catalog cannot be loaded
	ErrCatalogUnavailable = errors.New("food catalog unavailable")

	// ErrInvalidImage is returned when an uploaded image is empty or unreadable
	ErrInvalidImage = errors.New("invalid image")

	// ErrDetectorFailure is returned when the object detection service request fails
	ErrDetectorFailure = errors.New("object detector request failed")

	// ErrDetectorDisabled is returned when no detection service is configured
	ErrDetectorDisabled = errors.New("object detector not configured")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
