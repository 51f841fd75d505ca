package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// BranchRepository 店舗データアクセスインタフェース
type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	GetByID(ctx context.Context, id string) (*model.Branch, error)
	GetByCode(ctx context.Context, code string) (*model.Branch, error)
	List(ctx context.Context, activeOnly bool) ([]model.Branch, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, branch *model.Branch) error
	Deactivate(ctx context.Context, id string) error
	// HardDelete は物理削除。constraints / user_branches は連鎖削除されるが、
	// branch_id を後付けした履歴テーブルの行は残る
	HardDelete(ctx context.Context, id string) error
}

type branchRepo struct {
	db *gorm.DB
}

// NewBranchRepo BranchRepository を作成する
func NewBranchRepo(db *gorm.DB) BranchRepository {
	return &branchRepo{db: db}
}

func (r *branchRepo) Create(ctx context.Context, branch *model.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *branchRepo) GetByID(ctx context.Context, id string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepo) GetByCode(ctx context.Context, code string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepo) List(ctx context.Context, activeOnly bool) ([]model.Branch, error) {
	var branches []model.Branch
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("created_at ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Branch{}).Count(&count).Error
	return count, err
}

func (r *branchRepo) Update(ctx context.Context, branch *model.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

func (r *branchRepo) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Branch{}).
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

func (r *branchRepo) HardDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Branch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
