package viewmodel

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
	"github.com/uniconnect-hub/backend/internal/repositories"
	"github.com/uniconnect-hub/backend/internal/storage"
)

// StoryWithDetails is a story annotated with its author and like state.
type StoryWithDetails struct {
	ID         uuid.UUID              `json:"id"`
	UserID     uuid.UUID              `json:"user_id"`
	Content    string                 `json:"content,omitempty"`
	MediaURL   string                 `json:"media_url"`
	MediaType  string                 `json:"media_type"`
	CreatedAt  time.Time              `json:"created_at"`
	ExpiresAt  time.Time              `json:"expires_at"`
	Profile    *models.ProfileCompact `json:"profile"`
	LikesCount int                    `json:"likes_count"`
	IsLiked    bool                   `json:"is_liked"`
}

// StoryGroup is one author's active stories, oldest-first.
type StoryGroup struct {
	UserID  uuid.UUID              `json:"user_id"`
	Profile *models.ProfileCompact `json:"profile"`
	Stories []StoryWithDetails     `json:"stories"`
}

type storyEntry struct {
	story   models.Story
	profile *models.ProfileCompact
	likes   []models.StoryLike
}

// StoriesViewModel keeps the unexpired stories joined with author profiles
// and likes. Expiry is enforced twice: the fetch only loads unexpired rows,
// and every read filters again so a story is never served past its window
// even between refreshes.
type StoriesViewModel struct {
	stories  repositories.StoryRepository
	profiles repositories.ProfileRepository
	store    storage.ObjectStore

	mu       sync.RWMutex
	snapshot []storyEntry

	ref    *refresher
	cancel func()
	now    func() time.Time
}

// NewStoriesViewModel loads the initial snapshot and subscribes to the
// stories and story_likes tables.
func NewStoriesViewModel(
	stories repositories.StoryRepository,
	profiles repositories.ProfileRepository,
	store storage.ObjectStore,
	bus *realtime.Bus,
) (*StoriesViewModel, error) {
	vm := &StoriesViewModel{
		stories:  stories,
		profiles: profiles,
		store:    store,
		now:      time.Now,
	}
	vm.ref = newRefresher(vm.fetch)

	if err := vm.ref.Sync(); err != nil {
		return nil, err
	}

	ch, cancel := bus.Subscribe(repositories.TableStories, repositories.TableStoryLikes)
	vm.cancel = cancel
	go func() {
		for range ch {
			vm.ref.Trigger()
		}
	}()
	return vm, nil
}

// Close unsubscribes the view model from the change bus.
func (vm *StoriesViewModel) Close() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

// Refresh re-runs the fetch pipeline synchronously.
func (vm *StoriesViewModel) Refresh() error {
	return vm.ref.Sync()
}

func (vm *StoriesViewModel) fetch() (func(), error) {
	storyRows, err := vm.stories.GetActiveStories(vm.now())
	if err != nil {
		return nil, fmt.Errorf("fetch stories: %w", err)
	}

	storyIDs := make([]uuid.UUID, len(storyRows))
	authorSet := make(map[uuid.UUID]bool)
	for i, s := range storyRows {
		storyIDs[i] = s.ID
		authorSet[s.UserID] = true
	}
	authorIDs := make([]uuid.UUID, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}

	var (
		profileRows []models.Profile
		likeRows    []models.StoryLike
	)
	var g errgroup.Group
	g.Go(func() (err error) { profileRows, err = vm.profiles.GetByUserIDs(authorIDs); return })
	g.Go(func() (err error) { likeRows, err = vm.stories.GetLikesByStoryIDs(storyIDs); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch story relations: %w", err)
	}

	profileMap := make(map[uuid.UUID]models.ProfileCompact, len(profileRows))
	for _, p := range profileRows {
		profileMap[p.UserID] = p.ToCompact()
	}
	likesByStory := make(map[uuid.UUID][]models.StoryLike)
	for _, l := range likeRows {
		likesByStory[l.StoryID] = append(likesByStory[l.StoryID], l)
	}

	entries := make([]storyEntry, len(storyRows))
	for i, s := range storyRows {
		entry := storyEntry{story: s, likes: likesByStory[s.ID]}
		if p, ok := profileMap[s.UserID]; ok {
			cp := p
			entry.profile = &cp
		}
		entries[i] = entry
	}

	return func() {
		vm.mu.Lock()
		vm.snapshot = entries
		vm.mu.Unlock()
	}, nil
}

// StoriesFor returns the active stories visible to the viewer, newest-first.
func (vm *StoriesViewModel) StoriesFor(viewer uuid.UUID) []StoryWithDetails {
	now := vm.now()

	vm.mu.RLock()
	defer vm.mu.RUnlock()

	out := make([]StoryWithDetails, 0, len(vm.snapshot))
	for _, e := range vm.snapshot {
		if !e.story.ExpiresAt.After(now) {
			continue
		}
		isLiked := false
		for _, l := range e.likes {
			if l.UserID == viewer {
				isLiked = true
				break
			}
		}
		out = append(out, StoryWithDetails{
			ID:         e.story.ID,
			UserID:     e.story.UserID,
			Content:    e.story.Content,
			MediaURL:   e.story.MediaURL,
			MediaType:  e.story.MediaType,
			CreatedAt:  e.story.CreatedAt,
			ExpiresAt:  e.story.ExpiresAt,
			Profile:    e.profile,
			LikesCount: len(e.likes),
			IsLiked:    isLiked,
		})
	}
	return out
}

// StoriesByUserFor groups the viewer's visible stories per author, each
// author's stories oldest-first, authors ordered by their newest story.
func (vm *StoriesViewModel) StoriesByUserFor(viewer uuid.UUID) []StoryGroup {
	stories := vm.StoriesFor(viewer)

	byUser := make(map[uuid.UUID]*StoryGroup)
	order := []uuid.UUID{}
	for _, s := range stories {
		group, ok := byUser[s.UserID]
		if !ok {
			group = &StoryGroup{UserID: s.UserID, Profile: s.Profile}
			byUser[s.UserID] = group
			order = append(order, s.UserID)
		}
		group.Stories = append(group.Stories, s)
	}

	out := make([]StoryGroup, 0, len(order))
	for _, id := range order {
		group := byUser[id]
		sort.Slice(group.Stories, func(i, j int) bool {
			return group.Stories[i].CreatedAt.Before(group.Stories[j].CreatedAt)
		})
		out = append(out, *group)
	}
	return out
}

// CreateStory inserts the story row, uploading the media first when one is
// attached. The upload is best effort; a failed upload posts the story
// without media rather than failing the call.
func (vm *StoriesViewModel) CreateStory(ctx context.Context, author uuid.UUID, req models.CreateStoryRequest, file *MediaUpload) (*models.Story, error) {
	story := &models.Story{
		UserID:    author,
		Content:   req.Content,
		MediaType: "image",
	}
	if file != nil {
		path := fmt.Sprintf("%s/%d%s", author, vm.now().UnixMilli(), strings.ToLower(filepath.Ext(file.Filename)))
		if err := vm.store.Upload(ctx, path, bytes.NewReader(file.Data), file.ContentType); err != nil {
			log.Printf("viewmodel: story media upload failed, posting without media: %v", err)
		} else {
			story.MediaURL = vm.store.PublicURL(path)
			if strings.HasPrefix(file.ContentType, "video") {
				story.MediaType = "video"
			}
		}
	}
	if err := vm.stories.CreateStory(story); err != nil {
		return nil, err
	}
	return story, nil
}

// DeleteStory removes the viewer's own story.
func (vm *StoriesViewModel) DeleteStory(viewer, storyID uuid.UUID) error {
	return vm.stories.DeleteStory(storyID, viewer)
}

// LikeStory toggles the viewer's like on a story.
func (vm *StoriesViewModel) LikeStory(viewer, storyID uuid.UUID) (liked bool, err error) {
	vm.mu.RLock()
	isLiked := false
	found := false
	for _, e := range vm.snapshot {
		if e.story.ID == storyID {
			found = true
			for _, l := range e.likes {
				if l.UserID == viewer {
					isLiked = true
					break
				}
			}
			break
		}
	}
	vm.mu.RUnlock()
	if !found {
		return false, fmt.Errorf("story not found")
	}

	if isLiked {
		if err := vm.stories.UnlikeStory(storyID, viewer); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := vm.stories.LikeStory(storyID, viewer); err != nil {
		return false, err
	}
	return true, nil
}
