package store

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "mentorship:revoked:"

// Redis keeps revoked refresh-token ids in redis, each key expiring with the token it blocks.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

func (r *Redis) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return pkgerrors.Wrap(r.Client.Set(ctx, revokedPrefix+id, 1, ttl).Err(), "redis revoke")
}

func (r *Redis) Revoked(ctx context.Context, id string) (bool, error) {
	n, err := r.Client.Exists(ctx, revokedPrefix+id).Result()
	if err != nil {
		return false, pkgerrors.Wrap(err, "redis revoked")
	}
	return n > 0, nil
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
