package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"courierhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Rate table caching
	GetRates(ctx context.Context, tenantID uuid.UUID, serviceType string) ([]*models.Rate, error)
	SetRates(ctx context.Context, tenantID uuid.UUID, serviceType string, rates []*models.Rate, ttl time.Duration) error
	InvalidateRates(ctx context.Context, tenantID uuid.UUID) error

	// Session read-through caching
	GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, tenantID, sessionID uuid.UUID) error

	// IncrementWindow atomically increments the counter stored at key and
	// returns the post-increment value. The ttl is applied when the key is
	// first created so elapsed windows expire on their own.
	IncrementWindow(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port style addresses as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func ratesKey(tenantID uuid.UUID, serviceType string) string {
	return fmt.Sprintf("courierhub:rates:%s:%s", tenantID.String(), serviceType)
}

func sessionKey(tenantID, sessionID uuid.UUID) string {
	return fmt.Sprintf("courierhub:session:%s:%s", tenantID.String(), sessionID.String())
}

func (r *redisCacheService) GetRates(ctx context.Context, tenantID uuid.UUID, serviceType string) ([]*models.Rate, error) {
	data, err := r.client.Get(ctx, ratesKey(tenantID, serviceType)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var rates []*models.Rate
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *redisCacheService) SetRates(ctx context.Context, tenantID uuid.UUID, serviceType string, rates []*models.Rate, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, ratesKey(tenantID, serviceType), data, ttl).Err()
}

func (r *redisCacheService) InvalidateRates(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("courierhub:rates:%s:*", tenantID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(tenantID, sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisCacheService) SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.TenantID, session.SessionID), data, ttl).Err()
}

func (r *redisCacheService) DeleteSession(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	return r.client.Del(ctx, sessionKey(tenantID, sessionID)).Err()
}

func (r *redisCacheService) IncrementWindow(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	cacheKey := fmt.Sprintf("courierhub:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return 0, err
	}

	// Set expiry on first increment only; the window key then dies on its
	// own once the window has elapsed.
	if count == 1 {
		r.client.Expire(ctx, cacheKey, ttl)
	}

	return count, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
