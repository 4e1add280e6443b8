package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNoBackend = errors.New("store: neither redis nor badger is configured")

// Options selects which backends a HybridStore opens.
type Options struct {
	// RedisAddr enables the Redis mirror when set.
	RedisAddr string
	// RedisTTL expires mirrored keys. Zero keeps them forever.
	RedisTTL time.Duration
	// BadgerPath is the durable data directory. Empty disables Badger
	// unless InMemory is set.
	BadgerPath string
	InMemory   bool
	// GCInterval controls Badger value log GC. Zero disables it.
	GCInterval time.Duration
}

// HybridStore combines Redis (fast mirror) and Badger (durable copy)
type HybridStore struct {
	rdb    *redis.Client
	db     *badger.DB
	ttl    time.Duration
	logger *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewHybridStore opens the configured backends.
// With only RedisAddr set the store runs in Redis-only mode.
func NewHybridStore(opts Options, logger *zap.Logger) (*HybridStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RedisAddr == "" && opts.BadgerPath == "" && !opts.InMemory {
		return nil, ErrNoBackend
	}

	s := &HybridStore{
		ttl:    opts.RedisTTL,
		logger: logger,
		done:   make(chan struct{}),
	}

	if opts.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s.rdb = rdb
	}

	if opts.BadgerPath != "" || opts.InMemory {
		bopts := badger.DefaultOptions(opts.BadgerPath)
		if opts.InMemory {
			bopts = badger.DefaultOptions("").WithInMemory(true)
		}
		bopts.Logger = nil // Silence default logger

		db, err := badger.Open(bopts)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open badger: %w", err)
		}
		s.db = db

		if opts.GCInterval > 0 && !opts.InMemory {
			go s.runGC(opts.GCInterval)
		}
	}

	return s, nil
}

// runGC reclaims Badger value log space until the store is closed.
func (s *HybridStore) runGC(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(0.7)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("Badger value log GC failed", zap.Error(err))
			}
		}
	}
}

// Close cleans up connections
func (s *HybridStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.rdb != nil {
			s.rdb.Close()
		}
		if s.db != nil {
			s.db.Close()
		}
	})
}

// Set writes the value to Badger, then mirrors it to Redis.
// With both backends the mirror entry is dropped before Badger changes, so a
// failed mirror write leaves reads falling through to Badger instead of a
// stale Redis copy.
func (s *HybridStore) Set(ctx context.Context, key string, value []byte) error {
	if s.db == nil {
		if err := s.rdb.Set(ctx, key, value, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis set %s: %w", key, err)
		}
		return nil
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", key, err)
		}
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, value, s.ttl).Err(); err != nil {
			s.logger.Warn("Failed to mirror to redis", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// Get reads from Redis and falls back to Badger, back-filling the mirror
func (s *HybridStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			return val, nil
		}
		if err != redis.Nil {
			return nil, fmt.Errorf("redis get %s: %w", key, err)
		}
		if s.db == nil {
			return nil, ErrNotFound
		}
	}

	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, val, s.ttl).Err(); err != nil {
			s.logger.Warn("Failed to back-fill redis", zap.String("key", key), zap.Error(err))
		}
	}
	return val, nil
}

// Delete removes the key from both backends. Deleting a missing key is not an error.
func (s *HybridStore) Delete(ctx context.Context, key string) error {
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", key, err)
		}
	}
	if s.db != nil {
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(key))
		})
		if err != nil {
			return fmt.Errorf("badger del %s: %w", key, err)
		}
	}
	return nil
}
