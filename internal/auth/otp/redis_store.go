package otp

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// consumeScript deletes the key only when the stored code matches the
// submitted one, making check-and-consume a single atomic step on the
// server. A mismatch leaves the entry intact.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisStore backs the OTP store with an expiring key per email. Use it
// when the portal runs as more than one process; expiry is enforced by
// the key TTL instead of a lazy sweep.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "otp:",
	}
}

func (s *RedisStore) key(email string) string {
	return s.prefix + email
}

func (s *RedisStore) Put(ctx context.Context, email, code string) error {
	if err := s.client.Set(ctx, s.key(email), code, CodeTTL).Err(); err != nil {
		return fmt.Errorf("otp: failed to store code: %w", err)
	}
	return nil
}

func (s *RedisStore) CheckAndConsume(ctx context.Context, email, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{s.key(email)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("otp: failed to consume code: %w", err)
	}
	return n == 1, nil
}
