// Package history records operator decisions per group signature.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

// KV is the storage backend, keyed by signature. Get returns (nil, nil) for
// an unknown signature; Put replaces any existing entry.
type KV interface {
	Get(ctx context.Context, signature string) (*domain.HistoryEntry, error)
	Put(ctx context.Context, entry *domain.HistoryEntry) error
	Delete(ctx context.Context, signature string) error
	List(ctx context.Context) ([]*domain.HistoryEntry, error)
	Clear(ctx context.Context) error
}

type Decision struct {
	Signature    string
	Action       domain.HistoryAction
	KeptCategory domain.Category
	// Members is the group as the operator saw it; stored for audit only.
	Members []domain.CatalogEntity
}

type Store struct {
	kv  KV
	log *logger.Logger
	now func() time.Time
}

func NewStore(log *logger.Logger, kv KV) *Store {
	return &Store{kv: kv, log: log.With("module", "dedupe.history"), now: time.Now}
}

// List returns every entry, most recently decided first.
func (s *Store) List(ctx context.Context) ([]*domain.HistoryEntry, error) {
	entries, err := s.kv.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list merge history: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].Signature < entries[j].Signature
	})
	return entries, nil
}

// Index returns entries keyed by signature.
func (s *Store) Index(ctx context.Context) (map[string]*domain.HistoryEntry, error) {
	entries, err := s.kv.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list merge history: %w", err)
	}
	out := make(map[string]*domain.HistoryEntry, len(entries))
	for _, e := range entries {
		out[e.Signature] = e
	}
	return out, nil
}

// Upsert writes d, replacing any earlier decision for the same signature.
// The original ID and CreatedAt survive a replace.
func (s *Store) Upsert(ctx context.Context, d Decision) (*domain.HistoryEntry, error) {
	sig := strings.TrimSpace(d.Signature)
	if sig == "" {
		return nil, domain.Validation("history upsert", "signature is required")
	}
	var kept *string
	switch d.Action {
	case domain.HistoryApproved:
		if !d.KeptCategory.Mergeable() {
			return nil, domain.Validation("history upsert", "approved decisions need a kept category")
		}
		c := string(d.KeptCategory)
		kept = &c
	case domain.HistoryDeclined:
	default:
		return nil, domain.Validation("history upsert", fmt.Sprintf("unknown action %q", d.Action))
	}

	now := s.now().UTC()
	entry := &domain.HistoryEntry{
		ID:           uuid.New(),
		Signature:    sig,
		Action:       d.Action,
		KeptCategory: kept,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if len(d.Members) > 0 {
		raw, err := json.Marshal(d.Members)
		if err != nil {
			return nil, fmt.Errorf("encode history members: %w", err)
		}
		entry.Members = raw
	}

	prev, err := s.kv.Get(ctx, sig)
	if err != nil {
		return nil, fmt.Errorf("load history %q: %w", sig, err)
	}
	if prev != nil {
		entry.ID = prev.ID
		entry.CreatedAt = prev.CreatedAt
	}
	if err := s.kv.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("store history %q: %w", sig, err)
	}
	s.log.Info("merge history recorded", "signature", sig, "action", d.Action, "kept_category", d.KeptCategory)
	return entry, nil
}

// Forget removes a single signature's decision.
func (s *Store) Forget(ctx context.Context, signature string) error {
	if err := s.kv.Delete(ctx, strings.TrimSpace(signature)); err != nil {
		return fmt.Errorf("delete history %q: %w", signature, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("clear merge history: %w", err)
	}
	s.log.Warn("merge history cleared")
	return nil
}
