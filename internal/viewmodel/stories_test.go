package viewmodel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

type storiesFixture struct {
	vm       *StoriesViewModel
	stories  *fakeStoryRepo
	profiles *fakeProfileRepo
	store    *fakeStore
	now      time.Time
}

func newStoriesFixture(t *testing.T) *storiesFixture {
	t.Helper()
	f := &storiesFixture{
		stories:  &fakeStoryRepo{},
		profiles: newFakeProfileRepo(),
		store:    &fakeStore{},
		now:      time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
	vm, err := NewStoriesViewModel(f.stories, f.profiles, f.store, realtime.NewBus())
	if err != nil {
		t.Fatalf("build view model: %v", err)
	}
	t.Cleanup(vm.Close)
	vm.now = func() time.Time { return f.now }
	f.vm = vm
	return f
}

func (f *storiesFixture) seedStory(author uuid.UUID, createdAt time.Time) models.Story {
	story := models.Story{
		ID:        uuid.New(),
		UserID:    author,
		MediaURL:  "https://cdn.test/s.jpg",
		MediaType: "image",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(24 * time.Hour),
	}
	f.stories.stories = append(f.stories.stories, story)
	return story
}

func TestStoriesExpireAtReadTime(t *testing.T) {
	f := newStoriesFixture(t)
	author := uuid.New()
	f.profiles.add(author, "chidi", "Chidi")

	story := f.seedStory(author, f.now.Add(-23*time.Hour))
	if err := f.vm.Refresh(); err != nil {
		t.Fatal(err)
	}

	if got := f.vm.StoriesFor(uuid.New()); len(got) != 1 {
		t.Fatalf("expected 1 active story, got %d", len(got))
	}

	// move the clock past expiry without refreshing; the stale snapshot must
	// not leak the story
	f.now = story.ExpiresAt.Add(time.Minute)
	if got := f.vm.StoriesFor(uuid.New()); len(got) != 0 {
		t.Fatalf("expired story served from snapshot: %d", len(got))
	}
}

func TestStoryExpiryBoundaryExcluded(t *testing.T) {
	f := newStoriesFixture(t)
	author := uuid.New()

	story := f.seedStory(author, f.now.Add(-time.Hour))
	if err := f.vm.Refresh(); err != nil {
		t.Fatal(err)
	}

	f.now = story.ExpiresAt
	if got := f.vm.StoriesFor(uuid.New()); len(got) != 0 {
		t.Fatal("story exactly at expires_at must not be visible")
	}
}

func TestStoriesByUserGrouping(t *testing.T) {
	f := newStoriesFixture(t)
	amara := uuid.New()
	bayo := uuid.New()
	f.profiles.add(amara, "amara", "Amara")
	f.profiles.add(bayo, "bayo", "Bayo")

	f.seedStory(amara, f.now.Add(-3*time.Hour))
	f.seedStory(bayo, f.now.Add(-2*time.Hour))
	f.seedStory(amara, f.now.Add(-1*time.Hour))
	if err := f.vm.Refresh(); err != nil {
		t.Fatal(err)
	}

	groups := f.vm.StoriesByUserFor(uuid.New())
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// amara posted most recently, so her group leads
	if groups[0].UserID != amara || groups[1].UserID != bayo {
		t.Fatalf("group order wrong: %v then %v", groups[0].UserID, groups[1].UserID)
	}
	if len(groups[0].Stories) != 2 {
		t.Fatalf("expected 2 stories for amara, got %d", len(groups[0].Stories))
	}
	if !groups[0].Stories[0].CreatedAt.Before(groups[0].Stories[1].CreatedAt) {
		t.Fatal("stories within a group must be oldest-first")
	}
	if groups[0].Profile == nil || groups[0].Profile.Username != "amara" {
		t.Fatalf("group profile not joined: %+v", groups[0].Profile)
	}
}

func TestCreateStoryWithoutMedia(t *testing.T) {
	f := newStoriesFixture(t)
	author := uuid.New()

	story, err := f.vm.CreateStory(context.Background(), author, models.CreateStoryRequest{Content: "text only"}, nil)
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	if story.MediaURL != "" {
		t.Fatalf("media url %q, want empty", story.MediaURL)
	}
	if len(f.store.uploads) != 0 {
		t.Fatalf("unexpected uploads: %v", f.store.uploads)
	}
	if len(f.stories.stories) != 1 {
		t.Fatalf("story not inserted: %d", len(f.stories.stories))
	}
}

func TestCreateStorySurvivesUploadFailure(t *testing.T) {
	f := newStoriesFixture(t)
	f.store.failWith = errors.New("bucket unavailable")
	author := uuid.New()

	story, err := f.vm.CreateStory(context.Background(), author, models.CreateStoryRequest{Content: "exam tips"},
		&MediaUpload{Filename: "tips.jpg", ContentType: "image/jpeg", Data: []byte("fake")})
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	// the upload is best effort; the story posts without media
	if story.MediaURL != "" {
		t.Fatalf("media url %q, want empty", story.MediaURL)
	}
	if len(f.stories.stories) != 1 {
		t.Fatalf("story not inserted: %d", len(f.stories.stories))
	}
}

func TestCreateStoryUploadsMedia(t *testing.T) {
	f := newStoriesFixture(t)
	author := uuid.New()

	story, err := f.vm.CreateStory(context.Background(), author, models.CreateStoryRequest{Content: "matric day"},
		&MediaUpload{Filename: "day.MP4", ContentType: "video/mp4", Data: []byte("fake")})
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	if story.MediaType != "video" {
		t.Fatalf("media type %q", story.MediaType)
	}
	if !strings.HasPrefix(story.MediaURL, "https://cdn.test/") || !strings.HasSuffix(story.MediaURL, ".mp4") {
		t.Fatalf("media url %q", story.MediaURL)
	}
	// objects live under the author's prefix
	if len(f.store.uploads) != 1 || !strings.HasPrefix(f.store.uploads[0], author.String()+"/") {
		t.Fatalf("upload path %v", f.store.uploads)
	}
}

func TestLikeStoryToggles(t *testing.T) {
	f := newStoriesFixture(t)
	author := uuid.New()
	viewer := uuid.New()

	story := f.seedStory(author, f.now.Add(-time.Hour))
	if err := f.vm.Refresh(); err != nil {
		t.Fatal(err)
	}

	liked, err := f.vm.LikeStory(viewer, story.ID)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}

	if err := f.vm.Refresh(); err != nil {
		t.Fatal(err)
	}
	liked, err = f.vm.LikeStory(viewer, story.ID)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
	if len(f.stories.likes) != 0 {
		t.Fatalf("like row should be removed, got %d", len(f.stories.likes))
	}

	if _, err := f.vm.LikeStory(viewer, uuid.New()); err == nil {
		t.Fatal("expected error for unknown story")
	}
}
