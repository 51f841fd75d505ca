package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// ConstraintRepository 制約データアクセスインタフェース
// 一覧はソルバーの読み取り順（priority_order ASC）で返す
type ConstraintRepository interface {
	Create(ctx context.Context, c *model.Constraint) error
	BatchCreate(ctx context.Context, cs []model.Constraint) error
	GetByID(ctx context.Context, id string) (*model.Constraint, error)
	GetByCode(ctx context.Context, branchID, code string) (*model.Constraint, error)
	ListByBranch(ctx context.Context, branchID string) ([]model.Constraint, error)
	ListEnabled(ctx context.Context, branchID string) ([]model.Constraint, error)
	CountByBranch(ctx context.Context, branchID string) (int64, error)
	Update(ctx context.Context, c *model.Constraint) error
	Delete(ctx context.Context, id string) error
	DeleteByBranch(ctx context.Context, branchID string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	SetWeight(ctx context.Context, id string, weight int) error
	SetPriority(ctx context.Context, id string, priority int) error
	// Reorder 指定順に priority_order を 1..n で振り直す
	Reorder(ctx context.Context, branchID string, orderedIDs []string) error
}

type constraintRepo struct {
	db *gorm.DB
}

// NewConstraintRepo ConstraintRepository を作成する
func NewConstraintRepo(db *gorm.DB) ConstraintRepository {
	return &constraintRepo{db: db}
}

func (r *constraintRepo) Create(ctx context.Context, c *model.Constraint) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *constraintRepo) BatchCreate(ctx context.Context, cs []model.Constraint) error {
	if len(cs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&cs).Error
}

func (r *constraintRepo) GetByID(ctx context.Context, id string) (*model.Constraint, error) {
	var c model.Constraint
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *constraintRepo) GetByCode(ctx context.Context, branchID, code string) (*model.Constraint, error) {
	var c model.Constraint
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND code = ?", branchID, code).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *constraintRepo) ListByBranch(ctx context.Context, branchID string) ([]model.Constraint, error) {
	var list []model.Constraint
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("priority_order ASC, code ASC").
		Find(&list).Error
	return list, err
}

func (r *constraintRepo) ListEnabled(ctx context.Context, branchID string) ([]model.Constraint, error) {
	var list []model.Constraint
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND is_enabled = ?", branchID, true).
		Order("priority_order ASC, code ASC").
		Find(&list).Error
	return list, err
}

func (r *constraintRepo) CountByBranch(ctx context.Context, branchID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Constraint{}).
		Where("branch_id = ?", branchID).
		Count(&count).Error
	return count, err
}

func (r *constraintRepo) Update(ctx context.Context, c *model.Constraint) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *constraintRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Constraint{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *constraintRepo) DeleteByBranch(ctx context.Context, branchID string) error {
	return r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Delete(&model.Constraint{}).Error
}

func (r *constraintRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return r.updateColumn(ctx, id, "is_enabled", enabled)
}

func (r *constraintRepo) SetWeight(ctx context.Context, id string, weight int) error {
	return r.updateColumn(ctx, id, "penalty_weight", weight)
}

func (r *constraintRepo) SetPriority(ctx context.Context, id string, priority int) error {
	return r.updateColumn(ctx, id, "priority_order", priority)
}

func (r *constraintRepo) Reorder(ctx context.Context, branchID string, orderedIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&model.Constraint{}).
				Where("id = ? AND branch_id = ?", id, branchID).
				Update("priority_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *constraintRepo) updateColumn(ctx context.Context, id, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&model.Constraint{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
