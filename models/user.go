package models

import "time"

// AppRole type for application roles
type AppRole string

const (
	RoleAdmin    AppRole = "admin"
	RoleEmployee AppRole = "employee"
)

// Valid reports whether the role is one of the accepted values.
func (r AppRole) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User represents the users table
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(200);not null;unique" json:"email"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	FullName     *string   `gorm:"type:varchar(200)" json:"full_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// UserRole represents the user_roles table. One role row per user.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Role      AppRole   `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for UserRole
func (UserRole) TableName() string {
	return "user_roles"
}
