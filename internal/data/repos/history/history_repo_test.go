package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/medialib-admin/internal/data/repos/testutil"
	"github.com/yungbote/medialib-admin/internal/domain"
	dedupehistory "github.com/yungbote/medialib-admin/internal/modules/dedupe/history"
	"github.com/yungbote/medialib-admin/internal/platform/dbctx"
)

func TestHistoryRepoUpsertBySignature(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewHistoryRepo(db, testutil.Logger(t))

	now := time.Now().UTC().Truncate(time.Second)
	first := &domain.HistoryEntry{
		ID:        uuid.New(),
		Signature: "solaris|books,films",
		Action:    domain.HistoryDeclined,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Upsert(dbc, first); err != nil {
		t.Fatalf("Upsert first: %v", err)
	}

	kept := string(domain.CategoryFilms)
	second := &domain.HistoryEntry{
		ID:           uuid.New(),
		Signature:    first.Signature,
		Action:       domain.HistoryApproved,
		KeptCategory: &kept,
		CreatedAt:    now.Add(time.Minute),
		UpdatedAt:    now.Add(time.Minute),
	}
	if err := repo.Upsert(dbc, second); err != nil {
		t.Fatalf("Upsert second: %v", err)
	}

	all, err := repo.List(dbc)
	if err != nil || len(all) != 1 {
		t.Fatalf("List: err=%v len=%d", err, len(all))
	}
	got := all[0]
	if got.ID != first.ID {
		t.Fatalf("Upsert id: want=%s got=%s", first.ID, got.ID)
	}
	if got.Action != domain.HistoryApproved || got.Kept() != domain.CategoryFilms {
		t.Fatalf("Upsert decision: got=%s/%s", got.Action, got.Kept())
	}

	if err := repo.DeleteBySignature(dbc, first.Signature); err != nil {
		t.Fatalf("DeleteBySignature: %v", err)
	}
	if e, err := repo.GetBySignature(dbc, first.Signature); err != nil || e != nil {
		t.Fatalf("GetBySignature after delete: err=%v entry=%+v", err, e)
	}
}

func TestHistoryStoreOverRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	kv := NewKV(NewHistoryRepo(db, testutil.Logger(t))).WithTx(tx)
	store := dedupehistory.NewStore(testutil.Logger(t), kv)

	for _, sig := range []string{"kant|philosophers,writers", "stalker|books,films"} {
		if _, err := store.Upsert(ctx, dedupehistory.Decision{Signature: sig, Action: domain.HistoryDeclined}); err != nil {
			t.Fatalf("Upsert %s: %v", sig, err)
		}
	}
	if _, err := store.Upsert(ctx, dedupehistory.Decision{
		Signature:    "kant|philosophers,writers",
		Action:       domain.HistoryApproved,
		KeptCategory: domain.CategoryPhilosophers,
	}); err != nil {
		t.Fatalf("Upsert approve: %v", err)
	}

	idx, err := store.Index(ctx)
	if err != nil || len(idx) != 2 {
		t.Fatalf("Index: err=%v len=%d", err, len(idx))
	}
	if e := idx["kant|philosophers,writers"]; e.Action != domain.HistoryApproved {
		t.Fatalf("Index action: want=%s got=%s", domain.HistoryApproved, e.Action)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := store.List(ctx)
	if err != nil || len(entries) != 0 {
		t.Fatalf("List after clear: err=%v len=%d", err, len(entries))
	}
}
