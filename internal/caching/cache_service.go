package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"billmaker/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "billmaker"

type CacheService interface {
	// Bill caching
	GetBill(ctx context.Context, userID string, billID uuid.UUID) (*models.Bill, error)
	SetBill(ctx context.Context, bill *models.Bill, ttl time.Duration) error
	DeleteBill(ctx context.Context, userID string, billID uuid.UUID) error

	// Dashboard summary caching
	GetSummary(ctx context.Context, userID string) (*models.BillSummary, error)
	SetSummary(ctx context.Context, userID string, summary *models.BillSummary, ttl time.Duration) error
	DeleteSummary(ctx context.Context, userID string) error

	// Cache invalidation
	InvalidateUserCache(ctx context.Context, userID string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func billKey(userID string, billID uuid.UUID) string {
	return fmt.Sprintf("%s:bill:%s:%s", keyPrefix, userID, billID.String())
}

func summaryKey(userID string) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, userID)
}

func userPattern(userID string) string {
	return fmt.Sprintf("%s:*:%s*", keyPrefix, userID)
}

func (r *redisCacheService) GetBill(ctx context.Context, userID string, billID uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	found, err := r.getJSON(ctx, billKey(userID, billID), &bill)
	if err != nil || !found {
		return nil, err
	}
	return &bill, nil
}

func (r *redisCacheService) SetBill(ctx context.Context, bill *models.Bill, ttl time.Duration) error {
	return r.setJSON(ctx, billKey(bill.UserID, bill.ID), bill, ttl)
}

func (r *redisCacheService) DeleteBill(ctx context.Context, userID string, billID uuid.UUID) error {
	return r.client.Del(ctx, billKey(userID, billID)).Err()
}

func (r *redisCacheService) GetSummary(ctx context.Context, userID string) (*models.BillSummary, error) {
	var summary models.BillSummary
	found, err := r.getJSON(ctx, summaryKey(userID), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetSummary(ctx context.Context, userID string, summary *models.BillSummary, ttl time.Duration) error {
	return r.setJSON(ctx, summaryKey(userID), summary, ttl)
}

func (r *redisCacheService) DeleteSummary(ctx context.Context, userID string) error {
	return r.client.Del(ctx, summaryKey(userID)).Err()
}

// InvalidateUserCache drops every key belonging to userID.
func (r *redisCacheService) InvalidateUserCache(ctx context.Context, userID string) error {
	iter := r.client.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// getJSON reports found=false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
