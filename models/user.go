package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt int64   `json:"-"`
	UpdatedAt int64   `json:"-"`
	Username  string  `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string  `gorm:"type:varchar(254)" json:"-"`
	Password  string  `gorm:"type:varchar(128)" json:"-"`
	Grants    []Grant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
)

func (u User) String() string {
	return u.Username
}

func UserCreate(db *gorm.DB, username, email, plainTextPassword string) (u User, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return u, ErrUsernameRequired
	}
	if plainTextPassword == "" {
		return u, ErrPasswordRequired
	}
	u.Username = username
	u.Email = email
	if err = u.SetPassword(plainTextPassword); err != nil {
		return User{}, err
	}
	return u, db.Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func UserLogin(db *gorm.DB, username, plainTextPassword string) (u User, err error) {
	if err = db.Preload("Grants").First(&u, "username = ?", username).Error; err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (u *User) Grant(db *gorm.DB, permission Permission) error {
	grant := Grant{UserID: u.ID, Permission: permission}
	if err := db.Create(&grant).Error; err != nil {
		return err
	}
	u.Grants = append(u.Grants, grant)
	return nil
}

func (u *User) HasPermission(required Permission) bool {
	for _, permission := range u.Grants {
		if permission.Permission == required {
			return true
		}
	}
	return false
}

func (u *User) HasPermissions(required []Permission) bool {
	for _, permission := range required {
		if !u.HasPermission(permission) {
			return false
		}
	}
	return true
}
