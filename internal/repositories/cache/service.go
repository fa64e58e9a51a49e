package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"verity/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is not present.
var ErrCacheMiss = errors.New("cache miss")

// Service caches tenant records so the access policy can be evaluated on
// every request without a database round trip. Entries are short-lived and
// invalidated on any status or deadline change.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *Service) GetTenant(ctx context.Context, tenantID uint) (*models.Tenant, error) {
	val, err := s.client.Get(ctx, tenantKey(tenantID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var tenant models.Tenant
	if err := json.Unmarshal([]byte(val), &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *Service) SetTenant(ctx context.Context, tenant *models.Tenant) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, tenantKey(tenant.ID), data, s.ttl).Err()
}

func (s *Service) InvalidateTenant(ctx context.Context, tenantID uint) error {
	return s.client.Del(ctx, tenantKey(tenantID)).Err()
}

func (s *Service) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *Service) Close() error {
	return s.client.Close()
}

func tenantKey(tenantID uint) string {
	return fmt.Sprintf("tenant:%d", tenantID)
}
