package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a person who signed in through the OAuth provider. Subject is the
// provider's stable account id.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Subject   string    `json:"-" gorm:"type:varchar(255);not null;uniqueIndex"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func Models() []any {
	return []any{&User{}}
}
