package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Role           string    `json:"role" db:"role"`
	StoreIDs       []string  `json:"store_ids" db:"store_ids"`
	DefaultStoreID string    `json:"default_store_id" db:"default_store_id"`
	Name           string    `json:"name" db:"name"`
	EmployeeID     string    `json:"employee_id" db:"employee_id"`
	PinHash        string    `json:"-" db:"pin_hash"` // Never serialize in JSON
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// HasStore reports whether the user is granted access to the given store.
func (u *User) HasStore(storeID string) bool {
	for _, id := range u.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}
