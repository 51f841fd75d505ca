package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// UserBranchRepository ユーザー・店舗紐付けデータアクセスインタフェース
type UserBranchRepository interface {
	// Upsert (user_id, branch_id) をキーに作成または role / is_primary を更新する
	Upsert(ctx context.Context, ub *model.UserBranch) error
	Remove(ctx context.Context, userID, branchID string) error
	GetRole(ctx context.Context, userID, branchID string) (string, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserBranch, error)
	ListByBranch(ctx context.Context, branchID string) ([]model.UserBranch, error)
	// SetPrimary 同一ユーザーの他店舗の is_primary を落としてから対象を立てる
	SetPrimary(ctx context.Context, userID, branchID string) error
}

type userBranchRepo struct {
	db *gorm.DB
}

// NewUserBranchRepo UserBranchRepository を作成する
func NewUserBranchRepo(db *gorm.DB) UserBranchRepository {
	return &userBranchRepo{db: db}
}

func (r *userBranchRepo) Upsert(ctx context.Context, ub *model.UserBranch) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "branch_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "is_primary"}),
		}).
		Create(ub).Error
}

func (r *userBranchRepo) Remove(ctx context.Context, userID, branchID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		Delete(&model.UserBranch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userBranchRepo) GetRole(ctx context.Context, userID, branchID string) (string, error) {
	var ub model.UserBranch
	err := r.db.WithContext(ctx).
		Select("role").
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		First(&ub).Error
	if err != nil {
		return "", err
	}
	return ub.Role, nil
}

func (r *userBranchRepo) ListByUser(ctx context.Context, userID string) ([]model.UserBranch, error) {
	var list []model.UserBranch
	err := r.db.WithContext(ctx).
		Preload("Branch").
		Where("user_id = ?", userID).
		Order("is_primary DESC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *userBranchRepo) ListByBranch(ctx context.Context, branchID string) ([]model.UserBranch, error) {
	var list []model.UserBranch
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *userBranchRepo) SetPrimary(ctx context.Context, userID, branchID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.UserBranch{}).
			Where("user_id = ?", userID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		res := tx.Model(&model.UserBranch{}).
			Where("user_id = ? AND branch_id = ?", userID, branchID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
