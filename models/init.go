package models

import (
	"gorm.io/gorm"
)

// Init creates or updates the tables of all the entities
func Init(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Grant{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
	)
}
