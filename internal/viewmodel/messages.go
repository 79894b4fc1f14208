package viewmodel

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// ConversationWithDetails is a conversation annotated for one viewer: the
// other participants' profiles, the latest message, and the viewer's unread
// count.
type ConversationWithDetails struct {
	ID           uuid.UUID               `json:"id"`
	IsGroup      bool                    `json:"is_group"`
	GroupName    string                  `json:"group_name,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	Participants []models.ProfileCompact `json:"participants"`
	LastMessage  *models.Message         `json:"last_message"`
	UnreadCount  int                     `json:"unread_count"`
}

// MessageWithProfile is a message annotated with its sender's profile.
type MessageWithProfile struct {
	models.Message
	Profile *models.ProfileCompact `json:"profile"`
}

type conversationEntry struct {
	conv         models.Conversation
	participants []models.ConversationParticipant
	messages     []models.Message // newest-first
}

// MessagesViewModel keeps all conversations joined with their participants
// and messages. Viewer-specific annotation (unread counts, "the other side"
// of a DM) happens per read.
type MessagesViewModel struct {
	conversations repositories.ConversationRepository
	profiles      repositories.ProfileRepository

	mu       sync.RWMutex
	snapshot map[uuid.UUID]*conversationEntry
	profMap  map[uuid.UUID]models.ProfileCompact

	ref    *refresher
	cancel func()
	now    func() time.Time
}

// NewMessagesViewModel loads the initial snapshot and subscribes to the
// conversations, conversation_participants and messages tables.
func NewMessagesViewModel(
	conversations repositories.ConversationRepository,
	profiles repositories.ProfileRepository,
	bus *realtime.Bus,
) (*MessagesViewModel, error) {
	vm := &MessagesViewModel{
		conversations: conversations,
		profiles:      profiles,
		now:           time.Now,
	}
	vm.ref = newRefresher(vm.fetch)

	if err := vm.ref.Sync(); err != nil {
		return nil, err
	}

	ch, cancel := bus.Subscribe(
		repositories.TableConversations,
		repositories.TableParticipants,
		repositories.TableMessages,
		repositories.TableProfiles,
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
func (vm *MessagesViewModel) Close() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

// Refresh re-runs the fetch pipeline synchronously.
func (vm *MessagesViewModel) Refresh() error {
	return vm.ref.Sync()
}

func (vm *MessagesViewModel) fetch() (func(), error) {
	convRows, err := vm.conversations.GetAllConversations()
	if err != nil {
		return nil, fmt.Errorf("fetch conversations: %w", err)
	}
	convIDs := make([]uuid.UUID, len(convRows))
	for i, c := range convRows {
		convIDs[i] = c.ID
	}

	var (
		partRows []models.ConversationParticipant
		msgRows  []models.Message
	)
	var g errgroup.Group
	g.Go(func() (err error) { partRows, err = vm.conversations.GetParticipants(convIDs); return })
	g.Go(func() (err error) { msgRows, err = vm.conversations.GetMessagesByConversationIDs(convIDs); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch conversation relations: %w", err)
	}

	// only the profiles that actually appear in a conversation
	userSet := make(map[uuid.UUID]bool, len(partRows))
	for _, p := range partRows {
		userSet[p.UserID] = true
	}
	for _, m := range msgRows {
		userSet[m.SenderID] = true
	}
	userIDs := make([]uuid.UUID, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}
	profileRows, err := vm.profiles.GetByUserIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch participant profiles: %w", err)
	}
	profMap := make(map[uuid.UUID]models.ProfileCompact, len(profileRows))
	for _, p := range profileRows {
		profMap[p.UserID] = p.ToCompact()
	}

	entries := make(map[uuid.UUID]*conversationEntry, len(convRows))
	for _, c := range convRows {
		entries[c.ID] = &conversationEntry{conv: c}
	}
	for _, p := range partRows {
		if e, ok := entries[p.ConversationID]; ok {
			e.participants = append(e.participants, p)
		}
	}
	for _, m := range msgRows {
		if e, ok := entries[m.ConversationID]; ok {
			e.messages = append(e.messages, m)
		}
	}

	return func() {
		vm.mu.Lock()
		vm.snapshot = entries
		vm.profMap = profMap
		vm.mu.Unlock()
	}, nil
}

// ConversationsFor returns the viewer's conversations ordered by latest
// activity, with unread counts derived from the null read_at markers.
func (vm *MessagesViewModel) ConversationsFor(viewer uuid.UUID) []ConversationWithDetails {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	out := []ConversationWithDetails{}
	for _, e := range vm.snapshot {
		isMember := false
		for _, p := range e.participants {
			if p.UserID == viewer {
				isMember = true
				break
			}
		}
		if !isMember {
			continue
		}

		cwd := ConversationWithDetails{
			ID:        e.conv.ID,
			IsGroup:   e.conv.IsGroup,
			GroupName: e.conv.GroupName,
			CreatedAt: e.conv.CreatedAt,
		}
		for _, p := range e.participants {
			if p.UserID == viewer {
				continue
			}
			if prof, ok := vm.profMap[p.UserID]; ok {
				cwd.Participants = append(cwd.Participants, prof)
			}
		}
		for _, m := range e.messages {
			if m.SenderID != viewer && m.ReadAt == nil {
				cwd.UnreadCount++
			}
		}
		if len(e.messages) > 0 {
			last := e.messages[0]
			cwd.LastMessage = &last
		}
		out = append(out, cwd)
	}

	sort.Slice(out, func(i, j int) bool {
		return lastActivity(out[i]).After(lastActivity(out[j]))
	})
	return out
}

func lastActivity(c ConversationWithDetails) time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.CreatedAt
	}
	return c.CreatedAt
}

// OpenConversation returns one conversation's messages in chronological order
// and marks every message from other participants as read. Opening a chat is
// what clears its unread count.
func (vm *MessagesViewModel) OpenConversation(viewer, conversationID uuid.UUID) ([]MessageWithProfile, error) {
	ok, err := vm.conversations.IsParticipant(conversationID, viewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not a participant of this conversation")
	}

	msgs, err := vm.conversations.GetConversationMessages(conversationID)
	if err != nil {
		return nil, err
	}
	if _, err := vm.conversations.MarkMessagesRead(conversationID, viewer, vm.now()); err != nil {
		return nil, err
	}

	vm.mu.RLock()
	out := make([]MessageWithProfile, len(msgs))
	for i, m := range msgs {
		mwp := MessageWithProfile{Message: m}
		if prof, ok := vm.profMap[m.SenderID]; ok {
			cp := prof
			mwp.Profile = &cp
		}
		out[i] = mwp
	}
	vm.mu.RUnlock()
	return out, nil
}

// SendMessage appends a message to a conversation the viewer belongs to.
func (vm *MessagesViewModel) SendMessage(viewer, conversationID uuid.UUID, content string) (*models.Message, error) {
	ok, err := vm.conversations.IsParticipant(conversationID, viewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not a participant of this conversation")
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       viewer,
		Content:        content,
	}
	if err := vm.conversations.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// StartConversation finds or creates the 1:1 conversation with another user.
func (vm *MessagesViewModel) StartConversation(viewer, other uuid.UUID) (*models.Conversation, error) {
	if viewer == other {
		return nil, fmt.Errorf("cannot start a conversation with yourself")
	}
	return vm.conversations.FindOrCreateDM(viewer, other)
}

// CreateGroupChat creates a named group including the creator.
func (vm *MessagesViewModel) CreateGroupChat(creator uuid.UUID, req models.CreateGroupChatRequest) (*models.Conversation, error) {
	return vm.conversations.CreateGroup(req.Name, creator, req.MemberIDs)
}

// UnreadTotalFor returns the viewer's unread message count across all
// conversations.
func (vm *MessagesViewModel) UnreadTotalFor(viewer uuid.UUID) int {
	total := 0
	for _, c := range vm.ConversationsFor(viewer) {
		total += c.UnreadCount
	}
	return total
}
