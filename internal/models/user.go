package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the account a complaint is filed under. Only the fields the
// complaint workflow reads are modelled here.
type User struct {
	ID        string    `gorm:"primaryKey" json:"_id"`
	Name      string    `gorm:"type:text" json:"name"`
	Email     string    `gorm:"type:text;index" json:"email"`
	Role      string    `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate — хук GORM перед створенням запису.
// Генерує UUID, якщо ID ще не встановлено, і ставить роль "user" за замовчуванням.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return
}

// IsAdmin reports whether the user may review every complaint.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
