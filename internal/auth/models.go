package auth

import (
	"time"

	"huntguard/internal/common"
)

// Officer roles
const (
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

// User is a compliance officer account. Hunters never log in; the API's
// authenticated surface is for officers resolving violations and managing
// registry data.
type User struct {
	common.BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	Role         string     `json:"role" gorm:"default:'officer'"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "auth.users"
}
