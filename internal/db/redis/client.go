// Package redis implements db.Store over rueidis. It serves both Redis and Valkey.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/findmyfood/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	clientName      = "findmyfood"
	readyMinBackoff = 50 * time.Millisecond
	readyMaxBackoff = time.Second
)

// Config holds connection parameters. Addrs with more than one entry enable cluster mode in rueidis.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store is a db.Store backed by a single rueidis client.
type Store struct {
	client rueidis.Client
}

// NewStore dials lazily; use WaitForReady to block until the server answers.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: cfg.Addrs,
		Username:    cfg.Username,
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
		ClientName:  clientName,
		// Menu content and budget counters are read once per request; server-assisted caching buys nothing.
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: create client for %v: %w", cfg.Addrs, err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.exec(ctx, db.OpPing, s.client.B().Ping().Build())
}

func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with doubling backoff until the server answers or timeout elapses.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	backoff := readyMinBackoff
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("redis not ready after %s (last error: %v): %w", timeout, err, ctx.Err())
		case <-timer.C:
		}
		backoff = min(backoff*2, readyMaxBackoff)
	}
}
