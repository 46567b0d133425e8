package domain

import "time"

type Director struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	HebrewName  string    `gorm:"column:hebrew_name" json:"hebrew_name,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Director) TableName() string { return "directors" }

type Writer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	HebrewName  string    `gorm:"column:hebrew_name" json:"hebrew_name,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Writer) TableName() string { return "writers" }

type Philosopher struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	HebrewName  string    `gorm:"column:hebrew_name" json:"hebrew_name,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Philosopher) TableName() string { return "philosophers" }

type Painter struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	HebrewName  string    `gorm:"column:hebrew_name" json:"hebrew_name,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Painter) TableName() string { return "painters" }

type Film struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;index" json:"title"`
	HebrewTitle string    `gorm:"column:hebrew_title" json:"hebrew_title,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Year        int       `gorm:"column:year" json:"year,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Film) TableName() string { return "films" }

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;index" json:"title"`
	HebrewTitle string    `gorm:"column:hebrew_title" json:"hebrew_title,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Book) TableName() string { return "books" }

type Painting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;index" json:"title"`
	HebrewTitle string    `gorm:"column:hebrew_title" json:"hebrew_title,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Painting) TableName() string { return "paintings" }

// Junction tables. Each carries a unique (lecture, entity) pair.

type LectureDirector struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LectureID    uint   `gorm:"column:lecture_id;not null;uniqueIndex:ux_lecture_directors" json:"lecture_id"`
	DirectorID   uint   `gorm:"column:director_id;not null;uniqueIndex:ux_lecture_directors;index" json:"director_id"`
	RelationType string `gorm:"column:relation_type;not null;default:'discussed'" json:"relation_type"`
}

func (LectureDirector) TableName() string { return "lecture_directors" }

type LectureWriter struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LectureID    uint   `gorm:"column:lecture_id;not null;uniqueIndex:ux_lecture_writers" json:"lecture_id"`
	WriterID     uint   `gorm:"column:writer_id;not null;uniqueIndex:ux_lecture_writers;index" json:"writer_id"`
	RelationType string `gorm:"column:relation_type;not null;default:'discussed'" json:"relation_type"`
}

func (LectureWriter) TableName() string { return "lecture_writers" }

type LecturePhilosopher struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	LectureID     uint   `gorm:"column:lecture_id;not null;uniqueIndex:ux_lecture_philosophers" json:"lecture_id"`
	PhilosopherID uint   `gorm:"column:philosopher_id;not null;uniqueIndex:ux_lecture_philosophers;index" json:"philosopher_id"`
	RelationType  string `gorm:"column:relation_type;not null;default:'discussed'" json:"relation_type"`
}

func (LecturePhilosopher) TableName() string { return "lecture_philosophers" }

type LecturePainter struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LectureID    uint   `gorm:"column:lecture_id;not null;uniqueIndex:ux_lecture_painters" json:"lecture_id"`
	PainterID    uint   `gorm:"column:painter_id;not null;uniqueIndex:ux_lecture_painters;index" json:"painter_id"`
	RelationType string `gorm:"column:relation_type;not null;default:'discussed'" json:"relation_type"`
}

func (LecturePainter) TableName() string { return "lecture_painters" }

type LectureFilm struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LectureID    uint   `gorm:"column:lecture_id;not null;uniqueIndex:ux_lecture_films" json:"lecture_id"`
	FilmID       uint   `gorm:"column:film_id;not null;uniqueIndex:ux_lecture_films;index" json:"film_id"`
	RelationType string `gorm:"column:relation_type;not null;default:'discussed'" json:"relation_type"`
}

func (LectureFilm) TableName() string { return "lecture_films" }

type LectureBook struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LectureID    uint   `gorm:"column:lecture_id;not null;uniqueIndex:ux_lecture_books" json:"lecture_id"`
	BookID       uint   `gorm:"column:book_id;not null;uniqueIndex:ux_lecture_books;index" json:"book_id"`
	RelationType string `gorm:"column:relation_type;not null;default:'discussed'" json:"relation_type"`
}

func (LectureBook) TableName() string { return "lecture_books" }

type LecturePainting struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LectureID    uint   `gorm:"column:lecture_id;not null;uniqueIndex:ux_lecture_paintings" json:"lecture_id"`
	PaintingID   uint   `gorm:"column:painting_id;not null;uniqueIndex:ux_lecture_paintings;index" json:"painting_id"`
	RelationType string `gorm:"column:relation_type;not null;default:'discussed'" json:"relation_type"`
}

func (LecturePainting) TableName() string { return "lecture_paintings" }

// Courses, lectures and themes are read by the CRUD layer only.

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

type Lecture struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  *uint     `gorm:"column:course_id;index" json:"course_id,omitempty"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lecture) TableName() string { return "lectures" }

type Theme struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Theme) TableName() string { return "themes" }

// AllModels is the AutoMigrate set.
func AllModels() []interface{} {
	return []interface{}{
		&Director{}, &Writer{}, &Philosopher{}, &Painter{},
		&Film{}, &Book{}, &Painting{},
		&LectureDirector{}, &LectureWriter{}, &LecturePhilosopher{}, &LecturePainter{},
		&LectureFilm{}, &LectureBook{}, &LecturePainting{},
		&Course{}, &Lecture{}, &Theme{},
		&HistoryEntry{},
	}
}
