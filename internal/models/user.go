package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AgencyName   string `json:"agency_name"`
	Role         string `gorm:"type:varchar(16);not null;default:'agent'" json:"role"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
