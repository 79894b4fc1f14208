package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow represents an asymmetric follow relationship, unique per pair
type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_following"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
