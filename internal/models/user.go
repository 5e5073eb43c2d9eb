package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model `json:"-"`
	ID         uint         `json:"id" gorm:"primaryKey"`
	Name       string       `json:"name"`
	Email      string       `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password   string       `json:"-"`                        // Store hashed password, ignore for JSON serialization
	AvatarURL  string       `json:"avatar_url"`
	Bio        string       `json:"bio"`
	Settings   UserSettings `json:"settings" gorm:"serializer:json"`
}

// UserCompact is the public profile shape attached to feed items and comments.
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// CSRFToken is compared against the X-CSRF-Token header on mutating requests.
type JwtCustomClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrf"`
	jwt.RegisteredClaims
}
