package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// User is the identity record. Profile data lives in a separate row so admin
// mutations (suspend, verify) never touch credentials.
type User struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	Password    string    `json:"-"` // bcrypt hash, never serialized
	FirebaseUID string    `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile is the public identity-linked record, one per user.
type Profile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	Username    string    `json:"username" gorm:"uniqueIndex"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	University  string    `json:"university"`
	Course      string    `json:"course"`
	YearOfStudy int       `json:"year_of_study"`
	IsSuspended bool      `json:"is_suspended" gorm:"default:false"`
	IsOnline    bool      `json:"is_online" gorm:"default:false"`
	IsVerified  bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserRole grants an application role. Absence of a row means "student".
type UserRole struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_user_role"`
	Role   string    `json:"role" gorm:"size:20;uniqueIndex:idx_user_role"` // admin, student
}

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// ProfileCompact is the joined author shape embedded in enriched read models.
type ProfileCompact struct {
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url"`
	University string    `json:"university,omitempty"`
	IsOnline   bool      `json:"is_online"`
	IsVerified bool      `json:"is_verified"`
}

// ToCompact returns the embeddable shape of a profile.
func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{
		UserID:     p.UserID,
		Username:   p.Username,
		Name:       p.Name,
		AvatarURL:  p.AvatarURL,
		University: p.University,
		IsOnline:   p.IsOnline,
		IsVerified: p.IsVerified,
	}
}

// SignupRequest defines the request body for account creation
type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	University  string `json:"university" validate:"max=100"`
	Course      string `json:"course" validate:"max=100"`
	YearOfStudy int    `json:"year_of_study" validate:"min=0,max=10"`
}

// SignInRequest defines the request body for email/password login
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for self-editing a profile
type UpdateProfileRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=300"`
	University  string `json:"university,omitempty" validate:"omitempty,max=100"`
	Course      string `json:"course,omitempty" validate:"omitempty,max=100"`
	YearOfStudy int    `json:"year_of_study,omitempty" validate:"omitempty,min=0,max=10"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}
