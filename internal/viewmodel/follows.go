package viewmodel

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// FollowStats is the aggregate follow state of one profile for a viewer.
type FollowStats struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"is_following"`
}

// FollowService handles the follow graph. It is stateless; every read goes to
// the repository, which is cheap enough for count and membership queries.
type FollowService struct {
	follows       repositories.FollowRepository
	profiles      repositories.ProfileRepository
	notifications *NotificationsViewModel
}

// NewFollowService creates a new FollowService
func NewFollowService(
	follows repositories.FollowRepository,
	profiles repositories.ProfileRepository,
	notifications *NotificationsViewModel,
) *FollowService {
	return &FollowService{follows: follows, profiles: profiles, notifications: notifications}
}

// FollowUser creates the follow edge and notifies the followed user. The
// notification is best-effort; a failure there does not undo the follow.
func (s *FollowService) FollowUser(follower, target uuid.UUID) error {
	if err := s.follows.CreateFollow(&models.Follow{FollowerID: follower, FollowingID: target}); err != nil {
		return err
	}

	name := "Someone"
	if prof, err := s.profiles.GetByUserID(follower); err == nil {
		if prof.Name != "" {
			name = prof.Name
		} else if prof.Username != "" {
			name = prof.Username
		}
	}
	if err := s.notifications.Notify(
		target,
		models.NotificationFollow,
		fmt.Sprintf("%s started following you", name),
		"Check out their profile!",
		&follower,
	); err != nil {
		log.Printf("follow: notify failed: %v", err)
	}
	return nil
}

// UnfollowUser removes the follow edge. No notification is sent for an
// unfollow.
func (s *FollowService) UnfollowUser(follower, target uuid.UUID) error {
	return s.follows.DeleteFollow(follower, target)
}

// StatsFor returns follower and following counts for a profile plus whether
// the viewer follows it.
func (s *FollowService) StatsFor(viewer, target uuid.UUID) (*FollowStats, error) {
	followers, err := s.follows.GetFollowersCount(target)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.GetFollowingCount(target)
	if err != nil {
		return nil, err
	}
	isFollowing := false
	if viewer != uuid.Nil && viewer != target {
		isFollowing, err = s.follows.IsFollowing(viewer, target)
		if err != nil {
			return nil, err
		}
	}
	return &FollowStats{Followers: followers, Following: following, IsFollowing: isFollowing}, nil
}

// FollowersOf returns the profiles following the user.
func (s *FollowService) FollowersOf(userID uuid.UUID) ([]models.ProfileCompact, error) {
	ids, err := s.follows.GetFollowerIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.compactProfiles(ids)
}

// FollowingOf returns the profiles the user follows.
func (s *FollowService) FollowingOf(userID uuid.UUID) ([]models.ProfileCompact, error) {
	ids, err := s.follows.GetFollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.compactProfiles(ids)
}

func (s *FollowService) compactProfiles(ids []uuid.UUID) ([]models.ProfileCompact, error) {
	profiles, err := s.profiles.GetByUserIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProfileCompact, len(profiles))
	for i, p := range profiles {
		out[i] = p.ToCompact()
	}
	return out, nil
}
