package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 全 Repository の集約エントリ
type Repository struct {
	Branch       BranchRepository
	UserBranch   UserBranchRepository
	Staff        StaffRepository
	Constraint   ConstraintRepository
	MonthlyShift MonthlyShiftRepository
	Swap         SwapRepository
	Notification NotificationRepository

	db *gorm.DB
}

// NewRepository Repository 集約を作成する
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Branch:       NewBranchRepo(db),
		UserBranch:   NewUserBranchRepo(db),
		Staff:        NewStaffRepo(db),
		Constraint:   NewConstraintRepo(db),
		MonthlyShift: NewMonthlyShiftRepo(db),
		Swap:         NewSwapRepo(db),
		Notification: NewNotificationRepo(db),
		db:           db,
	}
}

// BeginTx トランザクションを開始する
// db を持たない集約（テストのモック構成）では nil を返し、呼び出し側は
// nil ガード付きで Commit / Rollback する
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx トランザクション上で動作する Repository 集約を返す
// tx が nil のときはそのまま自身を返す
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
