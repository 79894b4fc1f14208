package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	// CreateForAllProfiles fans one notification out to every profile.
	CreateForAllProfiles(notifType, title, message string) (int64, error)
	GetRecent(userID uuid.UUID, limit int) ([]models.Notification, error)
	GetUnreadCount(userID uuid.UUID) (int64, error)
	// MarkAsRead flags one of the user's own notifications read. It reports
	// gorm.ErrRecordNotFound when the notification does not exist or belongs
	// to someone else.
	MarkAsRead(userID, id uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
}

type postgresNotificationRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresNotificationRepository creates a new NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB, bus *realtime.Bus) NotificationRepository {
	return &postgresNotificationRepository{db: db, bus: bus}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if err := r.db.Create(notification).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableNotifications, notification.ID, notification)
	return nil
}

func (r *postgresNotificationRepository) CreateForAllProfiles(notifType, title, message string) (int64, error) {
	var profiles []models.Profile
	if err := r.db.Select("user_id").Find(&profiles).Error; err != nil {
		return 0, err
	}

	var created int64
	for _, p := range profiles {
		n := models.Notification{
			ID:      uuid.New(),
			UserID:  p.UserID,
			Type:    notifType,
			Title:   title,
			Message: message,
		}
		if err := r.db.Create(&n).Error; err != nil {
			return created, err
		}
		created++
		r.bus.PublishRow(realtime.EventInsert, TableNotifications, n.ID, n)
	}
	return created, nil
}

func (r *postgresNotificationRepository) GetRecent(userID uuid.UUID, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(userID, id uuid.UUID) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.bus.PublishRow(realtime.EventUpdate, TableNotifications, id, nil)
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(userID uuid.UUID) error {
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.bus.PublishRow(realtime.EventUpdate, TableNotifications, userID, nil)
	}
	return nil
}
