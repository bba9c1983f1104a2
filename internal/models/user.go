package models

import (
	"time"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Login       string    `json:"login" gorm:"uniqueIndex;not null"`
	Password    string    `json:"-" gorm:"not null"` // bcrypt hash
	Role        string    `json:"role" gorm:"size:20;not null"`
	IsAvailable bool      `json:"is_available" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleWaiter UserRole = "waiter"
	RoleCook   UserRole = "cook"
)

func ParseUserRole(s string) (UserRole, bool) {
	switch r := UserRole(s); r {
	case RoleAdmin, RoleWaiter, RoleCook:
		return r, true
	}
	return "", false
}

func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}
