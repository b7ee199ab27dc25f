package model

import (
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleStaff      UserRole = "staff"
)

type User struct {
	gorm.Model
	Email    string   `json:"email" gorm:"uniqueIndex;not null"`
	Password string   `json:"-" gorm:"not null"`
	Name     string   `json:"name" gorm:"not null"`
	Role     UserRole `json:"role" gorm:"default:'staff'"`

	// PINHash is the bcrypt hash of the short numeric PIN used for quick
	// cashier switching at the register.
	PINHash string `json:"-"`

	// Super admins are not tied to a store.
	StoreID *uint  `json:"store_id"`
	Store   *Store `json:"-" gorm:"foreignKey:StoreID"`
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"email":    u.Email,
		"name":     u.Name,
		"role":     u.Role,
		"store_id": u.StoreID,
	}
}
