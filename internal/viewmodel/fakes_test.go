package viewmodel

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
)

// In-memory repository fakes backing the view model tests. Writes do not
// publish bus events; tests drive refreshes explicitly through Refresh so
// assertions stay deterministic.

type fakePostRepo struct {
	posts []models.Post
	media []models.PostMedia
}

func (r *fakePostRepo) CreatePost(post *models.Post) error {
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	r.posts = append([]models.Post{*post}, r.posts...)
	return nil
}

func (r *fakePostRepo) GetAllPosts() ([]models.Post, error) {
	out := make([]models.Post, len(r.posts))
	copy(out, r.posts)
	return out, nil
}

func (r *fakePostRepo) GetPostByID(id uuid.UUID) (*models.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) DeletePost(id, ownerID uuid.UUID) error {
	for i, p := range r.posts {
		if p.ID == id && p.UserID == ownerID {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePostRepo) AddMedia(media *models.PostMedia) error {
	media.ID = uuid.New()
	r.media = append(r.media, *media)
	return nil
}

func (r *fakePostRepo) GetMediaByPostIDs(postIDs []uuid.UUID) ([]models.PostMedia, error) {
	want := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	var out []models.PostMedia
	for _, m := range r.media {
		if want[m.PostID] {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]models.Profile)}
}

func (r *fakeProfileRepo) add(userID uuid.UUID, username, name string) {
	r.profiles[userID] = models.Profile{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		Name:     name,
	}
}

func (r *fakeProfileRepo) CreateProfile(profile *models.Profile) error {
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *fakeProfileRepo) GetByUserID(userID uuid.UUID) (*models.Profile, error) {
	if p, ok := r.profiles[userID]; ok {
		cp := p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) GetByUsername(username string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Username == username {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) GetByUserIDs(userIDs []uuid.UUID) ([]models.Profile, error) {
	var out []models.Profile
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) GetAll() ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProfileRepo) SearchProfiles(query string, limit int) ([]models.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) UpdateProfile(userID uuid.UUID, fields map[string]any) error {
	return nil
}

func (r *fakeProfileRepo) SetSuspended(userID uuid.UUID, suspended bool) error {
	p, ok := r.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsSuspended = suspended
	r.profiles[userID] = p
	return nil
}

func (r *fakeProfileRepo) SetVerified(userID uuid.UUID, verified bool) error {
	p, ok := r.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsVerified = verified
	r.profiles[userID] = p
	return nil
}

func (r *fakeProfileRepo) SetOnline(userID uuid.UUID, online bool) error {
	p, ok := r.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsOnline = online
	r.profiles[userID] = p
	return nil
}

type fakeLikeRepo struct {
	likes []models.Like
}

func (r *fakeLikeRepo) CreateLike(like *models.Like) error {
	like.ID = uuid.New()
	r.likes = append(r.likes, *like)
	return nil
}

func (r *fakeLikeRepo) DeleteLike(postID, userID uuid.UUID) error {
	for i, l := range r.likes {
		if l.PostID == postID && l.UserID == userID {
			r.likes = append(r.likes[:i], r.likes[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeLikeRepo) GetLikesByPostIDs(postIDs []uuid.UUID) ([]models.Like, error) {
	want := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	var out []models.Like
	for _, l := range r.likes {
		if want[l.PostID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) HasUserLikedPost(postID, userID uuid.UUID) (bool, error) {
	for _, l := range r.likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeCommentRepo struct {
	comments []models.Comment
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) GetCommentsByPostIDs(postIDs []uuid.UUID) ([]models.Comment, error) {
	want := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	var out []models.Comment
	for _, c := range r.comments {
		if want[c.PostID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) DeleteComment(id, ownerID uuid.UUID) error {
	return nil
}

type fakeSavedPostRepo struct {
	saved map[string]bool // userID:postID
	calls int
}

func newFakeSavedPostRepo() *fakeSavedPostRepo {
	return &fakeSavedPostRepo{saved: make(map[string]bool)}
}

func savedKey(userID, postID uuid.UUID) string {
	return userID.String() + ":" + postID.String()
}

func (r *fakeSavedPostRepo) SavePost(userID, postID uuid.UUID) error {
	r.saved[savedKey(userID, postID)] = true
	return nil
}

func (r *fakeSavedPostRepo) UnsavePost(userID, postID uuid.UUID) error {
	delete(r.saved, savedKey(userID, postID))
	return nil
}

func (r *fakeSavedPostRepo) GetSavedPostIDs(userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.calls++
	out := make(map[uuid.UUID]bool)
	for _, id := range postIDs {
		if r.saved[savedKey(userID, id)] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeStoryRepo struct {
	stories []models.Story
	likes   []models.StoryLike
}

func (r *fakeStoryRepo) CreateStory(story *models.Story) error {
	story.ID = uuid.New()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now()
	}
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = story.CreatedAt.Add(24 * time.Hour)
	}
	r.stories = append([]models.Story{*story}, r.stories...)
	return nil
}

func (r *fakeStoryRepo) GetActiveStories(now time.Time) ([]models.Story, error) {
	var out []models.Story
	for _, s := range r.stories {
		if s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeStoryRepo) DeleteStory(id, ownerID uuid.UUID) error {
	for i, s := range r.stories {
		if s.ID == id && s.UserID == ownerID {
			r.stories = append(r.stories[:i], r.stories[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeStoryRepo) LikeStory(storyID, userID uuid.UUID) error {
	r.likes = append(r.likes, models.StoryLike{ID: uuid.New(), StoryID: storyID, UserID: userID})
	return nil
}

func (r *fakeStoryRepo) UnlikeStory(storyID, userID uuid.UUID) error {
	for i, l := range r.likes {
		if l.StoryID == storyID && l.UserID == userID {
			r.likes = append(r.likes[:i], r.likes[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeStoryRepo) GetLikesByStoryIDs(storyIDs []uuid.UUID) ([]models.StoryLike, error) {
	want := make(map[uuid.UUID]bool, len(storyIDs))
	for _, id := range storyIDs {
		want[id] = true
	}
	var out []models.StoryLike
	for _, l := range r.likes {
		if want[l.StoryID] {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeConversationRepo struct {
	conversations []models.Conversation
	participants  []models.ConversationParticipant
	messages      []models.Message
	dmByKey       map[string]uuid.UUID
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{dmByKey: make(map[string]uuid.UUID)}
}

func (r *fakeConversationRepo) FindOrCreateDM(a, b uuid.UUID) (*models.Conversation, error) {
	key := models.DMKeyFor(a, b)
	if id, ok := r.dmByKey[key]; ok {
		for _, c := range r.conversations {
			if c.ID == id {
				cp := c
				return &cp, nil
			}
		}
	}
	conv := models.Conversation{ID: uuid.New(), DMKey: key, CreatedAt: time.Now()}
	r.conversations = append(r.conversations, conv)
	r.dmByKey[key] = conv.ID
	for _, u := range []uuid.UUID{a, b} {
		r.participants = append(r.participants, models.ConversationParticipant{
			ID: uuid.New(), ConversationID: conv.ID, UserID: u,
		})
	}
	return &conv, nil
}

func (r *fakeConversationRepo) CreateGroup(name string, creatorID uuid.UUID, memberIDs []uuid.UUID) (*models.Conversation, error) {
	conv := models.Conversation{ID: uuid.New(), IsGroup: true, GroupName: name, CreatedAt: time.Now()}
	r.conversations = append(r.conversations, conv)
	members := append([]uuid.UUID{creatorID}, memberIDs...)
	seen := make(map[uuid.UUID]bool)
	for _, u := range members {
		if seen[u] {
			continue
		}
		seen[u] = true
		r.participants = append(r.participants, models.ConversationParticipant{
			ID: uuid.New(), ConversationID: conv.ID, UserID: u,
		})
	}
	return &conv, nil
}

func (r *fakeConversationRepo) GetAllConversations() ([]models.Conversation, error) {
	out := make([]models.Conversation, len(r.conversations))
	copy(out, r.conversations)
	return out, nil
}

func (r *fakeConversationRepo) GetConversationIDsFor(userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, p := range r.participants {
		if p.UserID == userID {
			out = append(out, p.ConversationID)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) GetConversationsByIDs(ids []uuid.UUID) ([]models.Conversation, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Conversation
	for _, c := range r.conversations {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) GetParticipants(conversationIDs []uuid.UUID) ([]models.ConversationParticipant, error) {
	want := make(map[uuid.UUID]bool, len(conversationIDs))
	for _, id := range conversationIDs {
		want[id] = true
	}
	var out []models.ConversationParticipant
	for _, p := range r.participants {
		if want[p.ConversationID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) IsParticipant(conversationID, userID uuid.UUID) (bool, error) {
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConversationRepo) CreateMessage(message *models.Message) error {
	message.ID = uuid.New()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeConversationRepo) GetMessagesByConversationIDs(conversationIDs []uuid.UUID) ([]models.Message, error) {
	want := make(map[uuid.UUID]bool, len(conversationIDs))
	for _, id := range conversationIDs {
		want[id] = true
	}
	var out []models.Message
	for _, m := range r.messages {
		if want[m.ConversationID] {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeConversationRepo) GetConversationMessages(conversationID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeConversationRepo) MarkMessagesRead(conversationID, readerID uuid.UUID, at time.Time) (int64, error) {
	var n int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.ConversationID == conversationID && m.SenderID != readerID && m.ReadAt == nil {
			t := at
			m.ReadAt = &t
			n++
		}
	}
	return n, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	getRecent     int
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	r.notifications = append([]models.Notification{*notification}, r.notifications...)
	return nil
}

func (r *fakeNotificationRepo) CreateForAllProfiles(notifType, title, message string) (int64, error) {
	return int64(len(r.notifications)), nil
}

func (r *fakeNotificationRepo) GetRecent(userID uuid.UUID, limit int) ([]models.Notification, error) {
	r.getRecent++
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID uuid.UUID) (int64, error) {
	var n int64
	for _, notif := range r.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(userID, id uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

type fakeFollowRepo struct {
	follows []models.Follow
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	follow.ID = uuid.New()
	r.follows = append(r.follows, *follow)
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uuid.UUID) error {
	for i, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			r.follows = append(r.follows[:i], r.follows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uuid.UUID) (bool, error) {
	for _, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFollowRepo) GetFollowingIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, f := range r.follows {
		if f.FollowerID == userID {
			out = append(out, f.FollowingID)
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) GetFollowerIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, f := range r.follows {
		if f.FollowingID == userID {
			out = append(out, f.FollowerID)
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) GetFollowersCount(userID uuid.UUID) (int64, error) {
	ids, _ := r.GetFollowerIDs(userID)
	return int64(len(ids)), nil
}

func (r *fakeFollowRepo) GetFollowingCount(userID uuid.UUID) (int64, error) {
	ids, _ := r.GetFollowingIDs(userID)
	return int64(len(ids)), nil
}

type fakeConfessionRepo struct {
	confessions []models.Confession
}

func (r *fakeConfessionRepo) CreateConfession(confession *models.Confession) error {
	confession.ID = uuid.New()
	confession.Status = models.ConfessionPending
	confession.CreatedAt = time.Now()
	r.confessions = append([]models.Confession{*confession}, r.confessions...)
	return nil
}

func (r *fakeConfessionRepo) GetByStatus(status string) ([]models.Confession, error) {
	var out []models.Confession
	for _, c := range r.confessions {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConfessionRepo) UpdateStatus(id uuid.UUID, status string) error {
	for i := range r.confessions {
		if r.confessions[i].ID == id {
			r.confessions[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeVerificationRepo struct {
	requests []models.VerificationRequest
}

func (r *fakeVerificationRepo) CreateRequest(request *models.VerificationRequest) error {
	request.ID = uuid.New()
	request.Status = models.VerificationPending
	request.CreatedAt = time.Now()
	r.requests = append(r.requests, *request)
	return nil
}

func (r *fakeVerificationRepo) GetByUserID(userID uuid.UUID) (*models.VerificationRequest, error) {
	for _, req := range r.requests {
		if req.UserID == userID {
			cp := req
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVerificationRepo) GetByID(id uuid.UUID) (*models.VerificationRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			cp := req
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVerificationRepo) GetAll() ([]models.VerificationRequest, error) {
	out := make([]models.VerificationRequest, len(r.requests))
	copy(out, r.requests)
	return out, nil
}

func (r *fakeVerificationRepo) Review(id uuid.UUID, status, notes string, reviewerID uuid.UUID, at time.Time) error {
	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests[i].Status = status
			r.requests[i].AdminNotes = notes
			r.requests[i].ReviewedBy = &reviewerID
			r.requests[i].ReviewedAt = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uuid.UUID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

type auditEntry struct {
	action     string
	adminID    uuid.UUID
	targetID   *uuid.UUID
	targetType string
	details    map[string]any
}

type fakeAuditRepo struct {
	entries []auditEntry
	fail    error
}

func (r *fakeAuditRepo) Record(action string, adminID uuid.UUID, targetID *uuid.UUID, targetType string, details map[string]any) error {
	if r.fail != nil {
		return r.fail
	}
	r.entries = append(r.entries, auditEntry{action, adminID, targetID, targetType, details})
	return nil
}

func (r *fakeAuditRepo) GetRecent(limit int) ([]models.AuditLog, error) {
	return nil, nil
}

type fakeStore struct {
	uploads  []string
	failWith error
}

func (s *fakeStore) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.uploads = append(s.uploads, path)
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, path string) error {
	return nil
}

func (s *fakeStore) PublicURL(path string) string {
	return fmt.Sprintf("https://cdn.test/%s", path)
}

type sentMail struct {
	to       string
	name     string
	notes    string
	approved bool
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) SendVerificationApproved(to, name string) error {
	m.sent = append(m.sent, sentMail{to: to, name: name, approved: true})
	return nil
}

func (m *fakeMailer) SendVerificationRejected(to, name, notes string) error {
	m.sent = append(m.sent, sentMail{to: to, name: name, notes: notes})
	return nil
}
