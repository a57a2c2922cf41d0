// Package cache provides the shared token cache the payment gateway uses.
// Any caller may populate it; readers must tolerate a miss and fetch.
package cache

import (
	"context"
	"errors"
	"time"
)

// TokenCache stores short-lived string values with an expiry.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

var ErrCacheMiss = errors.New("cache miss")
