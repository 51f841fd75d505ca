package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// YearMonth 保存済み月の一覧用
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// MonthlyShiftRepository 月次シフト表の永続化
// 1ヶ月分はスタッフごとの行の集合として保存し、置き換えは常に月単位で行う
type MonthlyShiftRepository interface {
	ReplaceMonth(ctx context.Context, branchID string, year, month int, rows []model.MonthlyShift) error
	ListMonth(ctx context.Context, branchID string, year, month int) ([]model.MonthlyShift, error)
	DeleteMonth(ctx context.Context, branchID string, year, month int) error
	SavedMonths(ctx context.Context, branchID string) ([]YearMonth, error)
	UpsertSummary(ctx context.Context, s *model.MonthlyShiftSummary) error
	GetSummary(ctx context.Context, branchID string, year, month int) (*model.MonthlyShiftSummary, error)
}

type monthlyShiftRepo struct {
	db *gorm.DB
}

// NewMonthlyShiftRepo MonthlyShiftRepository を生成する
func NewMonthlyShiftRepo(db *gorm.DB) MonthlyShiftRepository {
	return &monthlyShiftRepo{db: db}
}

// ReplaceMonth 同一トランザクションで月の既存行を消してから挿入する
func (r *monthlyShiftRepo) ReplaceMonth(ctx context.Context, branchID string, year, month int, rows []model.MonthlyShift) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			Delete(&model.MonthlyShift{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].BranchID = branchID
			rows[i].Year = year
			rows[i].Month = month
		}
		return tx.Create(&rows).Error
	})
}

func (r *monthlyShiftRepo) ListMonth(ctx context.Context, branchID string, year, month int) ([]model.MonthlyShift, error) {
	var rows []model.MonthlyShift
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		Order("staff_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteMonth 行とサマリーをまとめて消す。対象が無くてもエラーにしない
func (r *monthlyShiftRepo) DeleteMonth(ctx context.Context, branchID string, year, month int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			Delete(&model.MonthlyShift{}).Error; err != nil {
			return err
		}
		return tx.Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			Delete(&model.MonthlyShiftSummary{}).Error
	})
}

func (r *monthlyShiftRepo) SavedMonths(ctx context.Context, branchID string) ([]YearMonth, error) {
	var months []YearMonth
	err := r.db.WithContext(ctx).
		Model(&model.MonthlyShift{}).
		Select("DISTINCT year, month").
		Where("branch_id = ?", branchID).
		Order("year DESC, month DESC").
		Scan(&months).Error
	if err != nil {
		return nil, err
	}
	return months, nil
}

// UpsertSummary (branch_id, year, month) 一意キーで洗い替える
func (r *monthlyShiftRepo) UpsertSummary(ctx context.Context, s *model.MonthlyShiftSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "branch_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"summary_data", "created_by"}),
	}).Create(s).Error
}

func (r *monthlyShiftRepo) GetSummary(ctx context.Context, branchID string, year, month int) (*model.MonthlyShiftSummary, error) {
	var s model.MonthlyShiftSummary
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
