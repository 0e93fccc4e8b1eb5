// Package redis stores journals in Redis lists, one entry per journal line.
package redis

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// JournalSink is an io.Writer that RPUSHes every complete line to a Redis list.
// Partial lines are held until their newline arrives.
type JournalSink struct {
	client *backend.Client
	key    string
	ttl    time.Duration
	ctx    context.Context

	mu      sync.Mutex
	pending bytes.Buffer
}

type Option func(*JournalSink)

// WithTTL expires the list ttl after the last line was pushed.
func WithTTL(ttl time.Duration) Option {
	return func(s *JournalSink) {
		s.ttl = ttl
	}
}

// WithContext sets the context used by Write, which has no context parameter.
func WithContext(ctx context.Context) Option {
	return func(s *JournalSink) {
		s.ctx = ctx
	}
}

// New creates a sink with its own client.
func New(address, password string, db int, key string, opts ...Option) *JournalSink {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewJournalSink(rdb, key, opts...)
}

// NewJournalSink creates a sink from an existing client.
func NewJournalSink(client *backend.Client, key string, opts ...Option) *JournalSink {
	s := &JournalSink{
		client: client,
		key:    key,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write buffers p and pushes every complete line.
func (s *JournalSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending.Write(p)
	var lines []any
	for {
		i := bytes.IndexByte(s.pending.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(s.pending.Next(i + 1))
		lines = append(lines, line[:len(line)-1])
	}
	if len(lines) == 0 {
		return len(p), nil
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(s.ctx, s.key, lines...)
	if s.ttl > 0 {
		pipe.Expire(s.ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(s.ctx); err != nil {
		return 0, fmt.Errorf("failed to push journal lines: %w", err)
	}
	return len(p), nil
}

// Lines returns every line pushed so far, oldest first.
func (s *JournalSink) Lines(ctx context.Context) ([]string, error) {
	lines, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return lines, nil
}

// Reset deletes the list and drops any partial line.
func (s *JournalSink) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.pending.Reset()
	s.mu.Unlock()
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to reset journal: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *JournalSink) Close() error {
	return s.client.Close()
}
