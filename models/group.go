package models

import (
	"gorm.io/gorm"
)

type Group struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt   int64  `json:"-"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (g Group) String() string {
	return g.Title
}

func GroupCreate(db *gorm.DB, title, slug, description string) (g Group, err error) {
	g = Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	return g, db.Create(&g).Error
}
