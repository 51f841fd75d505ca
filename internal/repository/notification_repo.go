package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// NotificationRepository アプリ内通知の永続化
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, branchID, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, branchID, userID string) error
	CountUnread(ctx context.Context, branchID, userID string) (int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo NotificationRepository を生成する
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// List 新しい通知から limit 件。limit が 0 以下なら 50 件
func (r *notificationRepo) List(ctx context.Context, branchID, userID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Where("branch_id = ? AND user_id = ?", branchID, userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	var list []model.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead 既読化した件数は返さない。対象 0 件でもエラーにしない
func (r *notificationRepo) MarkAllRead(ctx context.Context, branchID, userID string) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("branch_id = ? AND user_id = ? AND read = ?", branchID, userID, false).
		Update("read", true).Error
}

func (r *notificationRepo) CountUnread(ctx context.Context, branchID, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("branch_id = ? AND user_id = ? AND read = ?", branchID, userID, false).
		Count(&count).Error
	return count, err
}
