package viewmodel

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
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

// CommentWithProfile is a comment annotated with its author's profile.
type CommentWithProfile struct {
	ID        uuid.UUID              `json:"id"`
	Content   string                 `json:"content"`
	UserID    uuid.UUID              `json:"user_id"`
	CreatedAt time.Time              `json:"created_at"`
	Profile   *models.ProfileCompact `json:"profile"`
}

// PostWithDetails is the display-ready post shape. The counts and is_liked
// are derived from the like/comment collections for the viewing user on
// every read; they are never stored.
type PostWithDetails struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	Content       string                 `json:"content"`
	Hashtags      []string               `json:"hashtags"`
	Visibility    string                 `json:"visibility"`
	CreatedAt     time.Time              `json:"created_at"`
	Profile       *models.ProfileCompact `json:"profile"`
	Media         []models.PostMedia     `json:"media"`
	LikesCount    int                    `json:"likes_count"`
	CommentsCount int                    `json:"comments_count"`
	IsLiked       bool                   `json:"is_liked"`
	IsSaved       bool                   `json:"is_saved"`
	Comments      []CommentWithProfile   `json:"comments"`
}

// MediaUpload is one attachment submitted with a post or story.
type MediaUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// postEntry is the viewer-neutral assembled form kept in the snapshot; the
// viewer-specific flags are derived per read.
type postEntry struct {
	post     models.Post
	profile  *models.ProfileCompact
	media    []models.PostMedia
	likes    []models.Like
	comments []CommentWithProfile
}

// PostsViewModel owns the denormalized posts read model: it fetches posts and
// their related rows in parallel, joins them in memory, keeps the result
// current via the change bus, and exposes the write paths.
type PostsViewModel struct {
	posts    repositories.PostRepository
	profiles repositories.ProfileRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	saved    repositories.SavedPostRepository
	store    storage.ObjectStore

	mu       sync.RWMutex
	snapshot []postEntry

	ref    *refresher
	cancel func()
}

// NewPostsViewModel assembles the initial snapshot and subscribes to the
// posts, likes, comments and post_media tables.
func NewPostsViewModel(
	posts repositories.PostRepository,
	profiles repositories.ProfileRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	saved repositories.SavedPostRepository,
	store storage.ObjectStore,
	bus *realtime.Bus,
) (*PostsViewModel, error) {
	vm := &PostsViewModel{
		posts:    posts,
		profiles: profiles,
		likes:    likes,
		comments: comments,
		saved:    saved,
		store:    store,
	}
	vm.ref = newRefresher(vm.fetch)

	if err := vm.ref.Sync(); err != nil {
		return nil, err
	}

	ch, cancel := bus.Subscribe(
		repositories.TablePosts,
		repositories.TablePostMedia,
		repositories.TableLikes,
		repositories.TableComments,
	)
	vm.cancel = cancel
	go func() {
		for range ch {
			vm.ref.Trigger()
		}
	}()
	return vm, nil
}

// Close unsubscribes the view model from the change bus.
func (vm *PostsViewModel) Close() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

// Refresh re-runs the fetch pipeline synchronously.
func (vm *PostsViewModel) Refresh() error {
	return vm.ref.Sync()
}

// fetch loads posts newest-first, fans out for the joined rows, and returns
// an apply func publishing the assembled snapshot.
func (vm *PostsViewModel) fetch() (func(), error) {
	postRows, err := vm.posts.GetAllPosts()
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	postIDs := make([]uuid.UUID, len(postRows))
	authorSet := make(map[uuid.UUID]bool)
	for i, p := range postRows {
		postIDs[i] = p.ID
		authorSet[p.UserID] = true
	}
	authorIDs := make([]uuid.UUID, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}

	var (
		profileRows []models.Profile
		mediaRows   []models.PostMedia
		likeRows    []models.Like
		commentRows []models.Comment
	)
	var g errgroup.Group
	g.Go(func() (err error) { profileRows, err = vm.profiles.GetByUserIDs(authorIDs); return })
	g.Go(func() (err error) { mediaRows, err = vm.posts.GetMediaByPostIDs(postIDs); return })
	g.Go(func() (err error) { likeRows, err = vm.likes.GetLikesByPostIDs(postIDs); return })
	g.Go(func() (err error) { commentRows, err = vm.comments.GetCommentsByPostIDs(postIDs); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch post relations: %w", err)
	}

	// comment authors may not be post authors; second fetch for their profiles
	commentAuthorSet := make(map[uuid.UUID]bool)
	for _, c := range commentRows {
		if !authorSet[c.UserID] {
			commentAuthorSet[c.UserID] = true
		}
	}
	if len(commentAuthorSet) > 0 {
		ids := make([]uuid.UUID, 0, len(commentAuthorSet))
		for id := range commentAuthorSet {
			ids = append(ids, id)
		}
		extra, err := vm.profiles.GetByUserIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("fetch comment profiles: %w", err)
		}
		profileRows = append(profileRows, extra...)
	}

	profileMap := make(map[uuid.UUID]models.ProfileCompact, len(profileRows))
	for _, p := range profileRows {
		profileMap[p.UserID] = p.ToCompact()
	}
	mediaByPost := make(map[uuid.UUID][]models.PostMedia)
	for _, m := range mediaRows {
		mediaByPost[m.PostID] = append(mediaByPost[m.PostID], m)
	}
	likesByPost := make(map[uuid.UUID][]models.Like)
	for _, l := range likeRows {
		likesByPost[l.PostID] = append(likesByPost[l.PostID], l)
	}
	commentsByPost := make(map[uuid.UUID][]CommentWithProfile)
	for _, c := range commentRows {
		cwp := CommentWithProfile{
			ID:        c.ID,
			Content:   c.Content,
			UserID:    c.UserID,
			CreatedAt: c.CreatedAt,
		}
		if p, ok := profileMap[c.UserID]; ok {
			cp := p
			cwp.Profile = &cp
		}
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], cwp)
	}

	entries := make([]postEntry, len(postRows))
	for i, p := range postRows {
		entry := postEntry{
			post:     p,
			media:    mediaByPost[p.ID],
			likes:    likesByPost[p.ID],
			comments: commentsByPost[p.ID],
		}
		if prof, ok := profileMap[p.UserID]; ok {
			cp := prof
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

// PostsFor derives the display-ready feed for one viewer from the snapshot.
func (vm *PostsViewModel) PostsFor(viewer uuid.UUID) ([]PostWithDetails, error) {
	vm.mu.RLock()
	entries := vm.snapshot
	vm.mu.RUnlock()

	postIDs := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		postIDs[i] = e.post.ID
	}
	savedMap := map[uuid.UUID]bool{}
	if viewer != uuid.Nil {
		var err error
		savedMap, err = vm.saved.GetSavedPostIDs(viewer, postIDs)
		if err != nil {
			return nil, fmt.Errorf("fetch saved posts: %w", err)
		}
	}

	out := make([]PostWithDetails, len(entries))
	for i, e := range entries {
		isLiked := false
		for _, l := range e.likes {
			if l.UserID == viewer {
				isLiked = true
				break
			}
		}
		out[i] = PostWithDetails{
			ID:            e.post.ID,
			UserID:        e.post.UserID,
			Content:       e.post.Content,
			Hashtags:      e.post.Hashtags,
			Visibility:    e.post.Visibility,
			CreatedAt:     e.post.CreatedAt,
			Profile:       e.profile,
			Media:         e.media,
			LikesCount:    len(e.likes),
			CommentsCount: len(e.comments),
			IsLiked:       isLiked,
			IsSaved:       savedMap[e.post.ID],
			Comments:      e.comments,
		}
	}
	return out, nil
}

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the distinct #tag tokens embedded in content,
// lowercased, in order of first appearance.
func ExtractHashtags(content string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// CreatePost inserts the post, then uploads each attachment and records a
// media row for it. A failed upload skips that attachment only; the post
// itself stands.
func (vm *PostsViewModel) CreatePost(ctx context.Context, author uuid.UUID, req models.CreatePostRequest, files []MediaUpload) (*models.Post, []error) {
	tags := req.Hashtags
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[strings.ToLower(t)] = true
	}
	for _, t := range ExtractHashtags(req.Content) {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}

	post := &models.Post{
		UserID:     author,
		Content:    req.Content,
		Hashtags:   tags,
		Visibility: req.Visibility,
	}
	if err := vm.posts.CreatePost(post); err != nil {
		return nil, []error{fmt.Errorf("create post: %w", err)}
	}

	var skipped []error
	for _, file := range files {
		path := fmt.Sprintf("%s/%s/%d%s", author, post.ID, time.Now().UnixMilli(), strings.ToLower(filepath.Ext(file.Filename)))
		if err := vm.store.Upload(ctx, path, bytes.NewReader(file.Data), file.ContentType); err != nil {
			skipped = append(skipped, fmt.Errorf("upload %s: %w", file.Filename, err))
			continue
		}
		mediaType := "image"
		if strings.HasPrefix(file.ContentType, "video") {
			mediaType = "video"
		}
		media := &models.PostMedia{
			PostID:    post.ID,
			MediaURL:  vm.store.PublicURL(path),
			MediaType: mediaType,
		}
		if err := vm.posts.AddMedia(media); err != nil {
			skipped = append(skipped, fmt.Errorf("record media %s: %w", file.Filename, err))
		}
	}
	return post, skipped
}

// LikePost toggles the viewer's like based on the current read model state,
// issuing a delete when liked and an insert otherwise.
func (vm *PostsViewModel) LikePost(viewer, postID uuid.UUID) (liked bool, err error) {
	vm.mu.RLock()
	isLiked := false
	found := false
	for _, e := range vm.snapshot {
		if e.post.ID == postID {
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
		return false, fmt.Errorf("post not found")
	}

	if isLiked {
		if err := vm.likes.DeleteLike(postID, viewer); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := vm.likes.CreateLike(&models.Like{PostID: postID, UserID: viewer}); err != nil {
		return false, err
	}
	return true, nil
}

// CommentOnPost writes the comment through; the snapshot catches up via the
// comments table event.
func (vm *PostsViewModel) CommentOnPost(viewer, postID uuid.UUID, content string) (*models.Comment, error) {
	comment := &models.Comment{PostID: postID, UserID: viewer, Content: content}
	if err := vm.comments.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeletePost removes the viewer's own post.
func (vm *PostsViewModel) DeletePost(viewer, postID uuid.UUID) error {
	return vm.posts.DeletePost(postID, viewer)
}

// SavePost bookmarks a post for the viewer.
func (vm *PostsViewModel) SavePost(viewer, postID uuid.UUID) error {
	return vm.saved.SavePost(viewer, postID)
}

// UnsavePost removes a bookmark.
func (vm *PostsViewModel) UnsavePost(viewer, postID uuid.UUID) error {
	return vm.saved.UnsavePost(viewer, postID)
}

// TrendingHashtags returns the most used hashtags across the snapshot.
func (vm *PostsViewModel) TrendingHashtags(limit int) []string {
	vm.mu.RLock()
	counts := make(map[string]int)
	for _, e := range vm.snapshot {
		for _, tag := range e.post.Hashtags {
			counts[tag]++
		}
	}
	vm.mu.RUnlock()

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}
