package models

import "time"

type User struct {
	ID           string    `gorm:"column:id;type:varchar(255);primaryKey" json:"id"`
	Username     string    `gorm:"column:username;type:varchar(255);uniqueIndex:idx_username;not null" json:"username"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex:idx_email;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"column:full_name;type:varchar(255)" json:"full_name,omitempty"`
	Role         string    `gorm:"column:role;type:varchar(50);default:'user'" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

const RoleAdmin = "admin"
