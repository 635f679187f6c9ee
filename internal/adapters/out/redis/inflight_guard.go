// Package redis keeps short-lived coordination state in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyConfirmInFlight = "fulfillment:confirm:%s"

// releaseScript deletes the key only while it still holds our token, so an
// expired hold taken over by another instance is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InFlightGuard implements ports.InFlightGuard with SET NX and a TTL. The TTL
// bounds how long a crashed instance blocks further confirmations.
type InFlightGuard struct {
	client *goredis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

func NewInFlightGuard(client *goredis.Client, ttl time.Duration) (*InFlightGuard, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("in-flight ttl", fmt.Errorf("%s is not greater than 0", ttl))
	}

	return &InFlightGuard{
		client: client,
		ttl:    ttl,
		tokens: make(map[string]string),
	}, nil
}

func (g *InFlightGuard) Acquire(ctx context.Context, orderID kernel.UUID) error {
	key := fmt.Sprintf(keyConfirmInFlight, orderID)
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire confirm hold: %w", err)
	}
	if !ok {
		return ports.ErrConfirmInFlight
	}

	g.mu.Lock()
	g.tokens[key] = token
	g.mu.Unlock()
	return nil
}

func (g *InFlightGuard) Release(ctx context.Context, orderID kernel.UUID) error {
	key := fmt.Sprintf(keyConfirmInFlight, orderID)

	g.mu.Lock()
	token, ok := g.tokens[key]
	delete(g.tokens, key)
	g.mu.Unlock()

	if !ok {
		return nil
	}

	err := releaseScript.Run(ctx, g.client, []string{key}, token).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("release confirm hold: %w", err)
	}
	return nil
}

// NewClient opens a client and checks the connection.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return client, nil
}
