// Package model holds the gorm models of DocVault.
package model

import "time"

// Local roles.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User mirrors an identity-provider subject. The role is derived from the
// provider roles on every authenticated request.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64);comment:identity provider subject"`
	Username  string    `json:"username" gorm:"size:128;index:idx_username"`
	Email     string    `json:"email" gorm:"size:255"`
	FullName  string    `json:"full_name" gorm:"size:255"`
	Role      string    `json:"role" gorm:"size:16;not null;default:viewer"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (*User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
