package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"denimops/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Commitment ledger caching
	GetCommitment(ctx context.Context, sku string) (*models.Commitment, error)
	SetCommitment(ctx context.Context, commitment *models.Commitment, ttl time.Duration) error
	DeleteCommitment(ctx context.Context, sku string) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port
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

func commitmentKey(sku string) string {
	return fmt.Sprintf("denimops:commitments:%s", sku)
}

func (r *redisCacheService) GetCommitment(ctx context.Context, sku string) (*models.Commitment, error) {
	data, err := r.client.Get(ctx, commitmentKey(sku)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var commitment models.Commitment
	if err := json.Unmarshal(data, &commitment); err != nil {
		return nil, err
	}
	return &commitment, nil
}

func (r *redisCacheService) SetCommitment(ctx context.Context, commitment *models.Commitment, ttl time.Duration) error {
	data, err := json.Marshal(commitment)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, commitmentKey(commitment.SKU), data, ttl).Err()
}

func (r *redisCacheService) DeleteCommitment(ctx context.Context, sku string) error {
	return r.client.Del(ctx, commitmentKey(sku)).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
