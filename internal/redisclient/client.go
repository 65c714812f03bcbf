package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client wraps a Redis client with OpenTelemetry tracing
type Client struct {
	cmdable redis.Cmdable
}

// NewClient creates a new traced Redis client for a single Redis instance
func NewClient(client *redis.Client) *Client {
	return &Client{cmdable: client}
}

// NewClusterClient creates a new traced Redis client for a Redis cluster
func NewClusterClient(client *redis.ClusterClient) *Client {
	return &Client{cmdable: client}
}

// startSpan opens a span for a Redis command and returns a closer that
// records the outcome and duration.
func startSpan(ctx context.Context, operation, key string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := otel.Tracer("redis").Start(ctx, "redis."+operation,
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.String("redis.operation", operation),
			attribute.String("redis.client", "reservations-api"),
		),
	)
	return ctx, func(err error) {
		span.SetAttributes(attribute.Int64("redis.duration_ms", time.Since(start).Milliseconds()))
		if err != nil && err != redis.Nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "success")
		}
		span.End()
	}
}

// Get wraps Redis GET with tracing
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	ctx, end := startSpan(ctx, "get", key)
	cmd := c.cmdable.Get(ctx, key)
	end(cmd.Err())
	return cmd
}

// Set wraps Redis SET with tracing
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	ctx, end := startSpan(ctx, "set", key)
	cmd := c.cmdable.Set(ctx, key, value, expiration)
	end(cmd.Err())
	return cmd
}

// Del wraps Redis DEL with tracing
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	key := ""
	if len(keys) > 0 {
		key = keys[0]
	}
	ctx, end := startSpan(ctx, "del", key)
	cmd := c.cmdable.Del(ctx, keys...)
	end(cmd.Err())
	return cmd
}

// HGetAll wraps Redis HGETALL with tracing
func (c *Client) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	ctx, end := startSpan(ctx, "hgetall", key)
	cmd := c.cmdable.HGetAll(ctx, key)
	end(cmd.Err())
	return cmd
}

// HSet wraps Redis HSET with tracing
func (c *Client) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	ctx, end := startSpan(ctx, "hset", key)
	cmd := c.cmdable.HSet(ctx, key, values...)
	end(cmd.Err())
	return cmd
}

// Expire wraps Redis EXPIRE with tracing
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	ctx, end := startSpan(ctx, "expire", key)
	cmd := c.cmdable.Expire(ctx, key, expiration)
	end(cmd.Err())
	return cmd
}

// Ping wraps Redis PING with tracing
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	ctx, end := startSpan(ctx, "ping", "")
	cmd := c.cmdable.Ping(ctx)
	end(cmd.Err())
	return cmd
}
