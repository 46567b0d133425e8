package testutil

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/medialib-admin/internal/domain"
)

func SeedDirector(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *domain.Director {
	tb.Helper()
	d := &domain.Director{Name: name}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed director: %v", err)
	}
	return d
}

func SeedFilm(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.Film {
	tb.Helper()
	f := &domain.Film{Title: title}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed film: %v", err)
	}
	return f
}

func SeedBook(tb testing.TB, ctx context.Context, tx *gorm.DB, title, hebrew string) *domain.Book {
	tb.Helper()
	b := &domain.Book{Title: title, HebrewTitle: hebrew}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed book: %v", err)
	}
	return b
}

func SeedLecture(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.Lecture {
	tb.Helper()
	l := &domain.Lecture{Title: title}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lecture: %v", err)
	}
	return l
}

// Link inserts a junction row between a lecture and an entity.
func Link(tb testing.TB, ctx context.Context, tx *gorm.DB, ref domain.EntityRef, lectureID uint) {
	tb.Helper()
	spec, ok := domain.SpecFor(ref.Category)
	if !ok {
		tb.Fatalf("link: unknown category %s", ref.Category)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (lecture_id, %s, relation_type) VALUES (?, ?, ?)", spec.RelationTable, spec.ForeignKey)
	if err := tx.WithContext(ctx).Exec(stmt, lectureID, ref.ID, "discussed").Error; err != nil {
		tb.Fatalf("link %s to lecture %d: %v", ref.Key(), lectureID, err)
	}
}
