package models

// User owns a personal list of movies. Deleting a user removes the owned
// movies as well; the constraint is declared here and additionally enforced
// transactionally in the repository so it holds on every driver.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"uniqueIndex;size:80;not null"`

	Movies []Movie `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
