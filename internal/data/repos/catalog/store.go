package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/platform/dbctx"
)

// Store binds a CatalogRepo to plain contexts for the catalog reader and
// merge executor. Each call runs in its own statement; merges are not
// wrapped in one transaction.
type Store struct {
	repo CatalogRepo
	tx   *gorm.DB
}

func NewStore(repo CatalogRepo) *Store { return &Store{repo: repo} }

// WithTx returns a Store whose calls all run inside tx.
func (s *Store) WithTx(tx *gorm.DB) *Store { return &Store{repo: s.repo, tx: tx} }

func (s *Store) dbc(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx, Tx: s.tx} }

func (s *Store) ListEntities(ctx context.Context, category domain.Category) ([]domain.EntityRecord, error) {
	return s.repo.ListEntities(s.dbc(ctx), category)
}

func (s *Store) RelationshipCounts(ctx context.Context, category domain.Category) (map[uint]int, error) {
	return s.repo.RelationshipCounts(s.dbc(ctx), category)
}

func (s *Store) GetEntity(ctx context.Context, ref domain.EntityRef) (*domain.EntityRecord, error) {
	return s.repo.GetEntity(s.dbc(ctx), ref)
}

func (s *Store) InsertEntity(ctx context.Context, rec domain.EntityRecord) (uint, error) {
	return s.repo.InsertEntity(s.dbc(ctx), rec)
}

func (s *Store) FillEntity(ctx context.Context, ref domain.EntityRef, rec domain.EntityRecord) error {
	return s.repo.FillBlankFields(s.dbc(ctx), ref, rec)
}

func (s *Store) DeleteEntity(ctx context.Context, ref domain.EntityRef) error {
	return s.repo.DeleteEntity(s.dbc(ctx), ref)
}

func (s *Store) ListRelationships(ctx context.Context, ref domain.EntityRef) ([]domain.RelationshipRow, error) {
	return s.repo.ListRelationships(s.dbc(ctx), ref)
}

func (s *Store) Retarget(ctx context.Context, category domain.Category, rowIDs []uint, entityID uint) error {
	return s.repo.RetargetRelationships(s.dbc(ctx), category, rowIDs, entityID)
}

func (s *Store) InsertRelationships(ctx context.Context, category domain.Category, rows []domain.RelationshipRow) (int, error) {
	return s.repo.InsertRelationships(s.dbc(ctx), category, rows)
}

func (s *Store) DeleteRelationships(ctx context.Context, category domain.Category, rowIDs []uint) error {
	return s.repo.DeleteRelationships(s.dbc(ctx), category, rowIDs)
}
