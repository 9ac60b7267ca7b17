package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hirepath/internal/application/models"
	"hirepath/pkg/platform/sentinel"
)

const (
	// Redis key prefix for application records (JSON)
	applicationKeyPrefix = "hirepath:application:"
	// Redis list holding application IDs in insertion order
	applicationOrderKey = "hirepath:applications"
	// IDs fetched per MGET round trip when listing
	listBatchSize = 200
)

// RedisStore keeps each application as a JSON string and their insertion
// order in a list. Append watches the record key and writes both inside one
// MULTI/EXEC.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedis constructs a Redis-backed application store.
func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func applicationKey(id string) string {
	return applicationKeyPrefix + id
}

func (s *RedisStore) Append(ctx context.Context, app *models.Application) (string, error) {
	if app == nil {
		return "", fmt.Errorf("append application: nil record")
	}
	record := app.Clone()
	if err := assignID(record); err != nil {
		return "", fmt.Errorf("generate application id: %w", err)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal application: %w", err)
	}

	key := applicationKey(record.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return sentinel.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.RPush(ctx, applicationOrderKey, record.ID)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, sentinel.ErrConflict) || errors.Is(err, redis.TxFailedErr) {
		return "", fmt.Errorf("append application %s: %w", record.ID, sentinel.ErrConflict)
	}
	if err != nil {
		return "", backendError("append application", err)
	}
	return record.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Application, error) {
	data, err := s.client.Get(ctx, applicationKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, backendError("get application", err)
	}
	var app models.Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("unmarshal application: %w", err)
	}
	return &app, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*models.Application, error) {
	ids, err := s.client.LRange(ctx, applicationOrderKey, 0, -1).Result()
	if err != nil {
		return nil, backendError("list application ids", err)
	}

	out := make([]*models.Application, 0, len(ids))
	for start := 0; start < len(ids); start += listBatchSize {
		end := min(start+listBatchSize, len(ids))
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, applicationKey(id))
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, backendError("load applications", err)
		}
		for _, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var app models.Application
			if err := json.Unmarshal([]byte(raw), &app); err != nil {
				return nil, fmt.Errorf("unmarshal application: %w", err)
			}
			out = append(out, &app)
		}
	}
	return out, nil
}
