package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/captions"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/metrics"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

const (
	totalKey     = "stats:lookups:total"
	outcomesKey  = "stats:lookups:outcomes"
	languagesKey = "stats:lookups:languages"
)

// Store keeps lookup outcome counters in Redis. Only counters are stored,
// never transcript content.
type Store struct {
	client *redis.Client
}

// NewStore creates a new stats store and verifies the connection
func NewStore(host string, port int, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// RecordLookup increments the total, the outcome counter and, for successful
// lookups, the counter of the served language
func (s *Store) RecordLookup(ctx context.Context, outcome captions.Kind, language string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, totalKey)
		pipe.HIncrBy(ctx, outcomesKey, string(outcome), 1)
		if outcome == captions.KindOK && language != "" {
			pipe.HIncrBy(ctx, languagesKey, language, 1)
		}
		return nil
	})
	metrics.RecordStatsOperation("record", err)
	if err != nil {
		return fmt.Errorf("failed to record lookup: %w", err)
	}
	return nil
}

// Summary returns the current counters
func (s *Store) Summary(ctx context.Context) (*models.StatsResponse, error) {
	summary, err := s.summary(ctx)
	metrics.RecordStatsOperation("summary", err)
	return summary, err
}

func (s *Store) summary(ctx context.Context) (*models.StatsResponse, error) {
	total, err := s.client.Get(ctx, totalKey).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get total: %w", err)
	}

	outcomes, err := s.hashCounters(ctx, outcomesKey)
	if err != nil {
		return nil, err
	}

	languages, err := s.hashCounters(ctx, languagesKey)
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{
		Total:     total,
		Outcomes:  outcomes,
		Languages: languages,
	}, nil
}

func (s *Store) hashCounters(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	counters := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid counter %s[%s]: %w", key, field, err)
		}
		counters[field] = n
	}
	return counters, nil
}

// Reset removes every counter
func (s *Store) Reset(ctx context.Context) error {
	return s.client.Del(ctx, totalKey, outcomesKey, languagesKey).Err()
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
