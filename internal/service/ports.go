package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID uuid.UUID
	Role   string
	Exp    time.Time
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (token string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

// EmailQueue hands a templated email off for delivery (kafka topic or inline
// SMTP). A nil queue disables email entirely.
type EmailQueue interface {
	SendEmail(ctx context.Context, key string, to, subject, template string, data map[string]any) error
}

// EventBus publishes order lifecycle events. Nil disables publishing.
type EventBus interface {
	PublishOrderEvent(ctx context.Context, ev OrderEvent) error
}

// RateLimiter guards the password-reset endpoint. Nil disables limiting.
type RateLimiter interface {
	SetRateLimit(ctx context.Context, key string, ttl time.Duration) error
	CheckRateLimit(ctx context.Context, key string) (bool, error)
}

// StatsCache caches the ticket dashboard payload the UI polls. Nil disables
// caching.
type StatsCache interface {
	SetStats(ctx context.Context, key string, data []byte, ttl time.Duration) error
	GetStats(ctx context.Context, key string) ([]byte, error)
	InvalidateStats(ctx context.Context, key string) error
}
