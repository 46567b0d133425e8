package merge

import (
	"context"

	"github.com/yungbote/medialib-admin/internal/domain"
)

// EntityStore reads and writes category tables. GetEntity returns (nil, nil)
// when the row does not exist.
type EntityStore interface {
	GetEntity(ctx context.Context, ref domain.EntityRef) (*domain.EntityRecord, error)
	InsertEntity(ctx context.Context, rec domain.EntityRecord) (uint, error)
	// FillEntity sets SecondaryName and Description on ref where they are
	// currently blank. Non-blank values are left untouched.
	FillEntity(ctx context.Context, ref domain.EntityRef, rec domain.EntityRecord) error
	DeleteEntity(ctx context.Context, ref domain.EntityRef) error
}

// RelationshipStore operates on a category's lecture junction table.
type RelationshipStore interface {
	ListRelationships(ctx context.Context, ref domain.EntityRef) ([]domain.RelationshipRow, error)
	// Retarget points the given rows of category's table at entityID.
	Retarget(ctx context.Context, category domain.Category, rowIDs []uint, entityID uint) error
	// InsertRelationships skips rows that collide on (lecture, entity) and
	// returns how many were written.
	InsertRelationships(ctx context.Context, category domain.Category, rows []domain.RelationshipRow) (int, error)
	DeleteRelationships(ctx context.Context, category domain.Category, rowIDs []uint) error
}

// ImageStore holds entity images. An entity's image may use any extension,
// so lookups fall back to listing the category prefix.
type ImageStore interface {
	KeyExists(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	CopyObject(ctx context.Context, srcKey, dstKey string) error
	DeleteFile(ctx context.Context, key string) error
}
