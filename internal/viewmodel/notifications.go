package viewmodel

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// notificationBufferCap bounds each user's in-memory notification list.
const notificationBufferCap = 50

// NotificationsViewModel keeps a capped per-user notification buffer. Insert
// events carry the full row, so new notifications are prepended directly
// instead of re-querying, and the buffer is trimmed back to its cap. Buffers
// are hydrated lazily on first read.
type NotificationsViewModel struct {
	notifications repositories.NotificationRepository

	mu      sync.RWMutex
	buffers map[uuid.UUID][]models.Notification

	cancel func()
}

// NewNotificationsViewModel subscribes to the notifications table and starts
// the patch pump.
func NewNotificationsViewModel(notifications repositories.NotificationRepository, bus *realtime.Bus) *NotificationsViewModel {
	vm := &NotificationsViewModel{
		notifications: notifications,
		buffers:       make(map[uuid.UUID][]models.Notification),
	}

	ch, cancel := bus.Subscribe(repositories.TableNotifications)
	vm.cancel = cancel
	go func() {
		for change := range ch {
			vm.handleChange(change)
		}
	}()
	return vm
}

// Close unsubscribes the view model from the change bus.
func (vm *NotificationsViewModel) Close() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

func (vm *NotificationsViewModel) handleChange(change realtime.Change) {
	switch change.Event {
	case realtime.EventInsert:
		var n models.Notification
		if err := json.Unmarshal(change.Row, &n); err != nil {
			log.Printf("viewmodel: bad notification payload: %v", err)
			return
		}
		vm.mu.Lock()
		if buf, ok := vm.buffers[n.UserID]; ok {
			buf = append([]models.Notification{n}, buf...)
			if len(buf) > notificationBufferCap {
				buf = buf[:notificationBufferCap]
			}
			vm.buffers[n.UserID] = buf
		}
		vm.mu.Unlock()
	case realtime.EventUpdate, realtime.EventDelete:
		// update events carry no row; drop affected buffers and rehydrate
		// on next read
		vm.mu.Lock()
		vm.buffers = make(map[uuid.UUID][]models.Notification)
		vm.mu.Unlock()
	}
}

// NotificationsFor returns the user's most recent notifications, hydrating
// the buffer from the store on first access.
func (vm *NotificationsViewModel) NotificationsFor(userID uuid.UUID) ([]models.Notification, error) {
	vm.mu.RLock()
	buf, ok := vm.buffers[userID]
	vm.mu.RUnlock()
	if ok {
		return buf, nil
	}

	recent, err := vm.notifications.GetRecent(userID, notificationBufferCap)
	if err != nil {
		return nil, err
	}

	vm.mu.Lock()
	// another goroutine may have hydrated or patched meanwhile; keep theirs
	if existing, ok := vm.buffers[userID]; ok {
		vm.mu.Unlock()
		return existing, nil
	}
	vm.buffers[userID] = recent
	vm.mu.Unlock()
	return recent, nil
}

// UnreadCountFor returns the user's unread notification count.
func (vm *NotificationsViewModel) UnreadCountFor(userID uuid.UUID) (int64, error) {
	notifications, err := vm.NotificationsFor(userID)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkAsRead flags one notification read, patching the local buffer first so
// the change is visible immediately.
func (vm *NotificationsViewModel) MarkAsRead(userID, notificationID uuid.UUID) error {
	vm.mu.Lock()
	if buf, ok := vm.buffers[userID]; ok {
		for i := range buf {
			if buf[i].ID == notificationID {
				buf[i].IsRead = true
				break
			}
		}
	}
	vm.mu.Unlock()
	return vm.notifications.MarkAsRead(userID, notificationID)
}

// MarkAllAsRead flags every unread notification of the user read.
func (vm *NotificationsViewModel) MarkAllAsRead(userID uuid.UUID) error {
	vm.mu.Lock()
	if buf, ok := vm.buffers[userID]; ok {
		for i := range buf {
			buf[i].IsRead = true
		}
	}
	vm.mu.Unlock()
	return vm.notifications.MarkAllAsRead(userID)
}

// Notify creates a notification for one user. Used by the follow, like and
// admin flows.
func (vm *NotificationsViewModel) Notify(userID uuid.UUID, notifType, title, message string, relatedID *uuid.UUID) error {
	return vm.notifications.CreateNotification(&models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	})
}

// Broadcast fans a notification out to every profile and returns how many
// were created.
func (vm *NotificationsViewModel) Broadcast(title, message string) (int64, error) {
	return vm.notifications.CreateForAllProfiles(models.NotificationBroadcast, title, message)
}
