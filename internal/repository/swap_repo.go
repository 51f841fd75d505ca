package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// SwapRepository シフト交代依頼の永続化
type SwapRepository interface {
	Create(ctx context.Context, req *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	ListByBranch(ctx context.Context, branchID, status string) ([]model.SwapRequest, error)
	ListForStaff(ctx context.Context, branchID, staffName string) ([]model.SwapRequest, error)
	UpdateStatus(ctx context.Context, id, status, approvedBy string) error
}

type swapRepo struct {
	db *gorm.DB
}

// NewSwapRepo SwapRepository を生成する
func NewSwapRepo(db *gorm.DB) SwapRepository {
	return &swapRepo{db: db}
}

func (r *swapRepo) Create(ctx context.Context, req *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *swapRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var req model.SwapRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByBranch status が空なら全件。新しい依頼から順に返す
func (r *swapRepo) ListByBranch(ctx context.Context, branchID, status string) ([]model.SwapRequest, error) {
	query := r.db.WithContext(ctx).Where("branch_id = ?", branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reqs []model.SwapRequest
	if err := query.Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListForStaff 依頼者・相手のどちらかに名前が載っている依頼を返す
func (r *swapRepo) ListForStaff(ctx context.Context, branchID, staffName string) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND (requester = ? OR target = ?)", branchID, staffName, staffName).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateStatus 承認・却下の確定。承認者と時刻も同時に書く
func (r *swapRepo) UpdateStatus(ctx context.Context, id, status, approvedBy string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": approvedBy,
			"approved_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
