package model

import (
	"time"
)

// ProviderCredentials marks users created through email + password registration.
const ProviderCredentials = "credentials"

type User struct {
	ID           string    `db:"id" bson:"_id" json:"id"`
	Email        string    `db:"email" bson:"email" json:"email"`
	PasswordHash *string   `db:"password_hash" bson:"password_hash" json:"-"` // Nullable for federated users
	Name         string    `db:"name" bson:"name" json:"name,omitempty"`
	AvatarURL    string    `db:"avatar_url" bson:"avatar_url" json:"avatarUrl,omitempty"`
	Provider     string    `db:"provider" bson:"provider" json:"provider"`
	CreatedAt    time.Time `db:"created_at" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" bson:"updated_at" json:"updatedAt"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
