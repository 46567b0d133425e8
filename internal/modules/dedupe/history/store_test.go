package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

func newTestStore() (*Store, *time.Time) {
	s := NewStore(logger.Nop(), NewMemoryKV())
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestUpsertLastWriteWins(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	first, err := s.Upsert(ctx, Decision{Signature: "kant|philosophers,writers", Action: domain.HistoryDeclined})
	require.NoError(t, err)
	assert.Nil(t, first.KeptCategory)

	*clock = clock.Add(time.Hour)
	second, err := s.Upsert(ctx, Decision{
		Signature:    "kant|philosophers,writers",
		Action:       domain.HistoryApproved,
		KeptCategory: domain.CategoryPhilosophers,
		Members:      []domain.CatalogEntity{{ID: 1, Category: domain.CategoryPhilosophers, Name: "Kant"}},
	})
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, domain.HistoryApproved, got.Action)
	assert.Equal(t, domain.CategoryPhilosophers, got.Kept())
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	assert.Equal(t, second.ID, got.ID)

	var members []domain.CatalogEntity
	require.NoError(t, json.Unmarshal(got.Members, &members))
	assert.Equal(t, "Kant", members[0].Name)
}

func TestUpsertValidation(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	_, err := s.Upsert(ctx, Decision{Signature: " ", Action: domain.HistoryDeclined})
	assert.True(t, domain.IsCode(err, domain.ErrorValidation))
	_, err = s.Upsert(ctx, Decision{Signature: "x|films", Action: domain.HistoryApproved})
	assert.True(t, domain.IsCode(err, domain.ErrorValidation))
	_, err = s.Upsert(ctx, Decision{Signature: "x|films", Action: "maybe"})
	assert.True(t, domain.IsCode(err, domain.ErrorValidation))
}

func TestListOrderIndexForgetClear(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	for _, sig := range []string{"a|films", "b|books", "c|writers"} {
		_, err := s.Upsert(ctx, Decision{Signature: sig, Action: domain.HistoryDeclined})
		require.NoError(t, err)
		*clock = clock.Add(time.Minute)
	}
	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c|writers", entries[0].Signature)
	assert.Equal(t, "a|films", entries[2].Signature)

	idx, err := s.Index(ctx)
	require.NoError(t, err)
	assert.Contains(t, idx, "b|books")

	require.NoError(t, s.Forget(ctx, "b|books"))
	idx, _ = s.Index(ctx)
	assert.NotContains(t, idx, "b|books")
	assert.Len(t, idx, 2)

	require.NoError(t, s.Clear(ctx))
	entries, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
