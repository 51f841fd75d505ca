package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// StaffRepository スタッフデータアクセスインタフェース
// 監査行（staff_audit）は追記のみで、更新・削除の操作を持たない
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	GetByName(ctx context.Context, branchID, name string) (*model.Staff, error)
	ListByBranch(ctx context.Context, branchID string, includeInactive bool) ([]model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	Deactivate(ctx context.Context, id string) error

	AppendAudit(ctx context.Context, audit *model.StaffAudit) error
	ListAudit(ctx context.Context, staffID string, limit int) ([]model.StaffAudit, error)
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo StaffRepository を作成する
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) GetByName(ctx context.Context, branchID, name string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND name = ?", branchID, name).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListByBranch(ctx context.Context, branchID string, includeInactive bool) ([]model.Staff, error) {
	var list []model.Staff
	db := r.db.WithContext(ctx).Where("branch_id = ?", branchID)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("display_order ASC, name ASC").Find(&list).Error
	return list, err
}

func (r *staffRepo) Update(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepo) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *staffRepo) AppendAudit(ctx context.Context, audit *model.StaffAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

func (r *staffRepo) ListAudit(ctx context.Context, staffID string, limit int) ([]model.StaffAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []model.StaffAudit
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
