package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/config"
	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
	pkgerrors "github.com/taehong0711/shiftmaster/pkg/errors"
)

// Seeder 初期データの投入
type Seeder struct {
	repo   *repository.Repository
	cfg    *config.SeedConfig
	logger *zap.Logger
}

// NewSeeder Seeder を作成する
func NewSeeder(repo *repository.Repository, cfg *config.SeedConfig, logger *zap.Logger) *Seeder {
	return &Seeder{repo: repo, cfg: cfg, logger: logger}
}

// EnsureDefaultBranch デフォルト店舗が無ければ作成し、あれば既存を返す
// マイグレーション 000002 が同じ内容を入れるため、通常は既存が返る
func (s *Seeder) EnsureDefaultBranch(ctx context.Context) (*model.Branch, error) {
	branch, err := s.repo.Branch.GetByCode(ctx, s.cfg.BranchCode)
	if err == nil {
		return branch, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, fmt.Errorf("デフォルト店舗の確認に失敗: %w", err)
	}

	branch = &model.Branch{
		Name:     s.cfg.BranchName,
		Code:     s.cfg.BranchCode,
		Timezone: s.cfg.Timezone,
		IsActive: true,
		Settings: model.JSONMap{
			"is_default":   true,
			"day_shifts":   DefaultDayShifts,
			"night_shifts": DefaultNightShifts,
		},
	}
	if err := s.repo.Branch.Create(ctx, branch); err != nil {
		// 同時起動で先を越された場合は作成済みの方を採用する
		if pkgerrors.IsDuplicate(err) {
			return s.repo.Branch.GetByCode(ctx, s.cfg.BranchCode)
		}
		return nil, fmt.Errorf("デフォルト店舗の作成に失敗: %w", err)
	}

	s.logger.Info("デフォルト店舗を作成しました",
		zap.String("branch_id", branch.ID),
		zap.String("code", branch.Code))
	return branch, nil
}

// InitBranchConstraints 店舗へデフォルト制約カタログを投入する
// 1 件でも制約があれば何もしない（管理者の編集を上書きしない）。投入件数を返す
func (s *Seeder) InitBranchConstraints(ctx context.Context, branchID string) (int, error) {
	count, err := s.repo.Constraint.CountByBranch(ctx, branchID)
	if err != nil {
		return 0, fmt.Errorf("制約件数の確認に失敗: %w", err)
	}
	if count > 0 {
		s.logger.Debug("制約が既にあるためシードをスキップ",
			zap.String("branch_id", branchID),
			zap.Int64("existing", count))
		return 0, nil
	}

	defaults, err := DefaultConstraints(branchID)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Constraint.BatchCreate(ctx, defaults); err != nil {
		return 0, fmt.Errorf("デフォルト制約の投入に失敗: %w", err)
	}

	s.logger.Info("デフォルト制約を投入しました",
		zap.String("branch_id", branchID),
		zap.Int("count", len(defaults)))
	return len(defaults), nil
}

// Run デフォルト店舗の確保と制約投入をまとめて行う
func (s *Seeder) Run(ctx context.Context) (*model.Branch, error) {
	branch, err := s.EnsureDefaultBranch(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.InitBranchConstraints(ctx, branch.ID); err != nil {
		return nil, err
	}
	return branch, nil
}
