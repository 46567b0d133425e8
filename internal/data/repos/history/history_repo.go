package history

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/dbctx"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type HistoryRepo interface {
	GetBySignature(dbc dbctx.Context, signature string) (*domain.HistoryEntry, error)
	Upsert(dbc dbctx.Context, entry *domain.HistoryEntry) error
	DeleteBySignature(dbc dbctx.Context, signature string) error
	List(dbc dbctx.Context) ([]*domain.HistoryEntry, error)
	DeleteAll(dbc dbctx.Context) error
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	repoLog := baseLog.With("repo", "HistoryRepo")
	return &historyRepo{db: db, log: repoLog}
}

func (r *historyRepo) GetBySignature(dbc dbctx.Context, signature string) (*domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	err := dbc.DB(r.db).Where("signature = ?", signature).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert inserts entry or, on a signature collision, replaces the decision
// fields of the existing row.
func (r *historyRepo) Upsert(dbc dbctx.Context, entry *domain.HistoryEntry) error {
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "signature"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "kept_category", "members", "updated_at"}),
		}).
		Create(entry).Error
}

func (r *historyRepo) DeleteBySignature(dbc dbctx.Context, signature string) error {
	return dbc.DB(r.db).Where("signature = ?", signature).Delete(&domain.HistoryEntry{}).Error
}

func (r *historyRepo) List(dbc dbctx.Context) ([]*domain.HistoryEntry, error) {
	var out []*domain.HistoryEntry
	if err := dbc.DB(r.db).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *historyRepo) DeleteAll(dbc dbctx.Context) error {
	return dbc.DB(r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.HistoryEntry{}).Error
}

// KV exposes a HistoryRepo as the merge history backend.
type KV struct {
	repo HistoryRepo
	tx   *gorm.DB
}

func NewKV(repo HistoryRepo) *KV { return &KV{repo: repo} }

func (k *KV) WithTx(tx *gorm.DB) *KV { return &KV{repo: k.repo, tx: tx} }

func (k *KV) dbc(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx, Tx: k.tx} }

func (k *KV) Get(ctx context.Context, signature string) (*domain.HistoryEntry, error) {
	return k.repo.GetBySignature(k.dbc(ctx), signature)
}

func (k *KV) Put(ctx context.Context, entry *domain.HistoryEntry) error {
	return k.repo.Upsert(k.dbc(ctx), entry)
}

func (k *KV) Delete(ctx context.Context, signature string) error {
	return k.repo.DeleteBySignature(k.dbc(ctx), signature)
}

func (k *KV) List(ctx context.Context) ([]*domain.HistoryEntry, error) {
	return k.repo.List(k.dbc(ctx))
}

func (k *KV) Clear(ctx context.Context) error {
	return k.repo.DeleteAll(k.dbc(ctx))
}
