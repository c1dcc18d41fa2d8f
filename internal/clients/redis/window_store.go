package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/novaluma/novaluma-backend/internal/logger"
)

// WindowStore keeps per-rule execution timestamps in a sorted set scored by
// unix nanos, so rolling-window counts survive process restarts and are
// shared across replicas.
type WindowStore struct {
	log       *logger.Logger
	rdb       *goredis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewWindowStore(log *logger.Logger) (*WindowStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_WINDOW_PREFIX"))
	if prefix == "" {
		prefix = "automation:window"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &WindowStore{
		log:       log.With("service", "RedisWindowStore"),
		rdb:       rdb,
		keyPrefix: prefix,
		// Weekly cap is the longest window anyone counts over.
		ttl: 8 * 24 * time.Hour,
	}, nil
}

func (s *WindowStore) key(ruleID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, ruleID.String())
}

func (s *WindowStore) Record(ctx context.Context, ruleID uuid.UUID, at time.Time) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis window store not initialized")
	}
	key := s.key(ruleID)
	score := float64(at.UnixNano())
	member := strconv.FormatInt(at.UnixNano(), 10)

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: score, Member: member})
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record execution: %w", err)
	}
	return nil
}

func (s *WindowStore) CountSince(ctx context.Context, ruleID uuid.UUID, since time.Time) (int, error) {
	if s == nil || s.rdb == nil {
		return 0, fmt.Errorf("redis window store not initialized")
	}
	min := strconv.FormatInt(since.UnixNano(), 10)
	n, err := s.rdb.ZCount(ctx, s.key(ruleID), min, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count executions: %w", err)
	}
	return int(n), nil
}

func (s *WindowStore) PruneBefore(ctx context.Context, ruleID uuid.UUID, before time.Time) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis window store not initialized")
	}
	max := strconv.FormatInt(before.UnixNano()-1, 10)
	if err := s.rdb.ZRemRangeByScore(ctx, s.key(ruleID), "-inf", max).Err(); err != nil {
		return fmt.Errorf("prune executions: %w", err)
	}
	return nil
}

func (s *WindowStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
