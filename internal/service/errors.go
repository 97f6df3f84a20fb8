package service

import "errors"

var (
	// ErrInvalidImage is returned when the request image is missing or not base64.
	ErrInvalidImage = errors.New("image data is required")
	// ErrModelUnavailable wraps every failure to get an answer from the model.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrEmptyMessage     = errors.New("message is required")
	ErrMissingUser      = errors.New("user id is required")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyConsumption = errors.New("calorie data is required")
	ErrNotFound         = errors.New("not found")
	ErrInvalidProfile   = errors.New("invalid profile")
	// ErrCacheMiss is returned by a ResultCache that holds no entry for a key.
	ErrCacheMiss = errors.New("cache miss")
)
