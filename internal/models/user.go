package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Valid reports whether the role is one of the two known values.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User identities come from the authentication layer: a UUID minted on first
// login in session mode, or the fixed guest id in demo mode.
type User struct {
	ID           string    `gorm:"type:varchar(64);primarykey" json:"id"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FirstName    *string   `gorm:"type:varchar(255)" json:"first_name"`
	LastName     *string   `gorm:"type:varchar(255)" json:"last_name"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Projects     []Project `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedTasks []Task    `gorm:"foreignKey:CreatedByID" json:"-"`
}
