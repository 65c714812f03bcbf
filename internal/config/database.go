package config

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/logging"
	"github.com/delbi-restaurant/reservations-api/internal/redisclient"
	"github.com/delbi-restaurant/reservations-api/internal/store"
)

var (
	// DB is the document store selected at startup
	DB store.DataStore
	// Redis client
	Redis *redisclient.Client
)

const (
	connectAttempts = 3
	connectBackoff  = 500 * time.Millisecond
)

// InitDataStore connects to MongoDB, retrying with doubling backoff. When the
// database stays unreachable, non-production environments fall back to a
// process-local in-memory store; production fails hard.
func InitDataStore() error {
	var lastErr error
	delay := connectBackoff

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := connectMongo()
		if err == nil {
			DB = store.NewMongoStore(db)
			logging.Logger.Info("connected to MongoDB",
				zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
				zap.String("database", AppConfig.MongoDatabase),
			)
			return nil
		}
		lastErr = err
		logging.Logger.Warn("MongoDB connection failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err))
		if attempt < connectAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}

	if AppConfig.IsProduction() {
		return lastErr
	}

	logging.Logger.Warn("falling back to in-memory store, data will not survive restarts",
		zap.Error(lastErr))
	DB = store.NewMemoryStore()
	return nil
}

func connectMongo() (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client.Database(AppConfig.MongoDatabase), nil
}

// InitRedis initializes the Redis connection
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", AppConfig.RedisURI))
}

// maskMongoURI masks credentials in a MongoDB URI for logging
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	return "mongodb://****:****@" + uri[at+1:]
}
