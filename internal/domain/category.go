package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryDirectors    Category = "directors"
	CategoryWriters      Category = "writers"
	CategoryPhilosophers Category = "philosophers"
	CategoryPainters     Category = "painters"
	CategoryFilms        Category = "films"
	CategoryBooks        Category = "books"
	CategoryPaintings    Category = "paintings"

	// Present in the catalog but never merged.
	CategoryThemes   Category = "themes"
	CategoryCourses  Category = "courses"
	CategoryLectures Category = "lectures"
)

// CategorySpec describes where a category lives in the relational store.
type CategorySpec struct {
	Category          Category
	Table             string
	NameColumn        string
	SecondaryColumn   string
	DescriptionColumn string
	// RelationTable links entities of this category to lectures; ForeignKey is
	// the column in RelationTable pointing back at the entity.
	RelationTable string
	ForeignKey    string
}

var categorySpecs = []CategorySpec{
	{CategoryDirectors, "directors", "name", "hebrew_name", "description", "lecture_directors", "director_id"},
	{CategoryWriters, "writers", "name", "hebrew_name", "description", "lecture_writers", "writer_id"},
	{CategoryPhilosophers, "philosophers", "name", "hebrew_name", "description", "lecture_philosophers", "philosopher_id"},
	{CategoryPainters, "painters", "name", "hebrew_name", "description", "lecture_painters", "painter_id"},
	{CategoryFilms, "films", "title", "hebrew_title", "description", "lecture_films", "film_id"},
	{CategoryBooks, "books", "title", "hebrew_title", "description", "lecture_books", "book_id"},
	{CategoryPaintings, "paintings", "title", "hebrew_title", "description", "lecture_paintings", "painting_id"},
}

var specByCategory = func() map[Category]CategorySpec {
	out := make(map[Category]CategorySpec, len(categorySpecs))
	for _, s := range categorySpecs {
		out[s.Category] = s
	}
	return out
}()

// MergeableCategories returns the categories eligible for duplicate detection,
// in catalog order.
func MergeableCategories() []Category {
	out := make([]Category, 0, len(categorySpecs))
	for _, s := range categorySpecs {
		out = append(out, s.Category)
	}
	return out
}

// MergeableSpecs returns a copy of every mergeable category's storage spec.
func MergeableSpecs() []CategorySpec {
	return append([]CategorySpec(nil), categorySpecs...)
}

func SpecFor(c Category) (CategorySpec, bool) {
	s, ok := specByCategory[c]
	return s, ok
}

func (c Category) Mergeable() bool {
	_, ok := specByCategory[c]
	return ok
}

func (c Category) String() string { return string(c) }

// ParseCategory normalizes and validates a mergeable category name.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c.Mergeable() {
		return c, nil
	}
	switch c {
	case CategoryThemes, CategoryCourses, CategoryLectures:
		return "", fmt.Errorf("category %q is not mergeable", c)
	default:
		return "", fmt.Errorf("unknown category %q", raw)
	}
}
