package models

// Movie is a film record owned by exactly one user. Optional fields are
// nullable pointers so "absent" is distinguishable from a zero value.
type Movie struct {
	ID       int64    `gorm:"primaryKey;autoIncrement"`
	UserID   int64    `gorm:"index;not null"`
	Title    string   `gorm:"size:200;not null"`
	Director *string  `gorm:"size:120"`
	Year     *int
	Plot     *string
	Poster   *string  `gorm:"size:500"`
	Rating   *float64 `gorm:"type:decimal(3,1)"`
}

func (Movie) TableName() string {
	return "movies"
}
