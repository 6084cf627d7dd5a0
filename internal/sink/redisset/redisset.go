// Package redisset mirrors a view's preheat set into Redis so that warmers in
// other processes can consume it.
package redisset

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/sink/keys"
)

// Store is the subset of redisstore.Client used by the sink.
type Store interface {
	ApplyDelta(ctx context.Context, setKey, queueKey string, added, removed []string, ttl time.Duration) error
	SMembers(ctx context.Context, key string) ([]string, error)
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

type Config struct {
	View      string
	TTL       time.Duration
	OpTimeout time.Duration
}

// Sink applies each delta synchronously with a bounded timeout. Failures are
// logged and dropped; the next delta does not repair them.
type Sink struct {
	store    Store
	log      *slog.Logger
	setKey   string
	queueKey string
	ttl      time.Duration
	timeout  time.Duration
}

func New(store Store, cfg Config, log *slog.Logger) *Sink {
	if log == nil {
		log = slog.Default()
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 250 * time.Millisecond
	}
	return &Sink{
		store:    store,
		log:      log.With("component", "redisset", "view", cfg.View),
		setKey:   keys.SetKey(cfg.View),
		queueKey: keys.QueueKey(cfg.View),
		ttl:      cfg.TTL,
		timeout:  cfg.OpTimeout,
	}
}

func (s *Sink) OnPreheatSetChanged(added, removed []model.ItemID) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.ApplyDelta(ctx, s.setKey, s.queueKey, keys.Members(added), keys.Members(removed), s.ttl); err != nil {
		s.log.Warn("preheat delta not mirrored", "err", err, "added", len(added), "removed", len(removed))
	}
}

// Members returns the mirrored set in item order.
func (s *Sink) Members(ctx context.Context) ([]model.ItemID, error) {
	raw, err := s.store.SMembers(ctx, s.setKey)
	if err != nil {
		return nil, err
	}
	ids, err := keys.ParseMembers(raw)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(ids, model.ItemID.Compare)
	return ids, nil
}

// Pending returns the queued items in the order they were reported.
func (s *Sink) Pending(ctx context.Context) ([]model.ItemID, error) {
	raw, err := s.store.LRange(ctx, s.queueKey, 0, -1)
	if err != nil {
		return nil, err
	}
	return keys.ParseMembers(raw)
}

// Clear deletes both keys, e.g. after a controller Reset.
func (s *Sink) Clear(ctx context.Context) error {
	return s.store.Del(ctx, s.setKey, s.queueKey)
}
