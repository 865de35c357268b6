package domain

import "time"

// User is the persisted account record. The plaintext password never lands
// here; only its bcrypt hash is stored.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName     string `gorm:"size:255" json:"full_name"`
	PasswordHash string `gorm:"column:password_hash;size:100;not null" json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser  bool   `gorm:"not null;default:false" json:"is_superuser"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
