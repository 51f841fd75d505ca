package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/internal/authz"
	"github.com/taehong0711/shiftmaster/internal/dto"
	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
	"github.com/taehong0711/shiftmaster/internal/seed"
	pkgerrors "github.com/taehong0711/shiftmaster/pkg/errors"
)

// ── 店舗モジュール業務エラー ──

var (
	ErrBranchNotFound  = errors.New("店舗が存在しません")
	ErrBranchCodeTaken = errors.New("店舗コードが既に使われています")
	ErrBranchNameEmpty = errors.New("店舗名とコードは必須です")
	ErrLastBranch      = errors.New("最後の店舗は無効化・削除できません")
	ErrGrantNotFound   = errors.New("店舗権限が存在しません")
	ErrInvalidRole     = errors.New("ロールは super / editor / viewer のいずれかです")
)

// BranchService 店舗・店舗権限の業務インタフェース
type BranchService interface {
	Create(ctx context.Context, req *dto.CreateBranchRequest) (*model.Branch, error)
	GetByID(ctx context.Context, id string) (*model.Branch, error)
	GetByCode(ctx context.Context, code string) (*model.Branch, error)
	List(ctx context.Context, activeOnly bool) ([]model.Branch, error)
	Update(ctx context.Context, id string, req *dto.UpdateBranchRequest) (*model.Branch, error)
	Deactivate(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	EnsureDefault(ctx context.Context) (*model.Branch, error)

	Grant(ctx context.Context, req *dto.GrantRequest) error
	Revoke(ctx context.Context, userID, branchID string) error
	SetPrimary(ctx context.Context, userID, branchID string) error
	RoleOf(ctx context.Context, userID, branchID string) (string, error)
	ListGrants(ctx context.Context, branchID string) ([]model.UserBranch, error)
	ListUserBranches(ctx context.Context, userID string) ([]model.UserBranch, error)

	ShiftCodes(ctx context.Context, branchID string) (*dto.ShiftCodeSettings, error)
	UpdateShiftCodes(ctx context.Context, branchID string, codes *dto.ShiftCodeSettings) (*model.Branch, error)
}

type branchService struct {
	repo   *repository.Repository
	seeder *seed.Seeder
	logger *zap.Logger
}

// NewBranchService BranchService を作成する
func NewBranchService(repo *repository.Repository, seeder *seed.Seeder, logger *zap.Logger) BranchService {
	return &branchService{repo: repo, seeder: seeder, logger: logger}
}

// ────────────────────── 店舗 CRUD ──────────────────────

// Create 店舗を作成し、デフォルト制約カタログを投入する
func (s *branchService) Create(ctx context.Context, req *dto.CreateBranchRequest) (*model.Branch, error) {
	if req.Name == "" || req.Code == "" {
		return nil, ErrBranchNameEmpty
	}

	branch := &model.Branch{
		Name:     req.Name,
		Code:     req.Code,
		Timezone: req.Timezone,
		IsActive: true,
		Settings: model.JSONMap(req.Settings),
	}
	if branch.Timezone == "" {
		branch.Timezone = "Asia/Tokyo"
	}

	if err := s.repo.Branch.Create(ctx, branch); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrBranchCodeTaken
		}
		s.logger.Error("店舗の作成に失敗", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	if _, err := s.seeder.InitBranchConstraints(ctx, branch.ID); err != nil {
		s.logger.Error("新店舗へのデフォルト制約投入に失敗",
			zap.String("branch_id", branch.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("店舗を作成しました",
		zap.String("branch_id", branch.ID), zap.String("code", branch.Code))
	return branch, nil
}

func (s *branchService) GetByID(ctx context.Context, id string) (*model.Branch, error) {
	branch, err := s.repo.Branch.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("店舗の取得に失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return branch, nil
}

func (s *branchService) GetByCode(ctx context.Context, code string) (*model.Branch, error) {
	branch, err := s.repo.Branch.GetByCode(ctx, code)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("店舗の取得に失敗", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return branch, nil
}

func (s *branchService) List(ctx context.Context, activeOnly bool) ([]model.Branch, error) {
	branches, err := s.repo.Branch.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("店舗一覧の取得に失敗", zap.Error(err))
		return nil, err
	}
	return branches, nil
}

func (s *branchService) Update(ctx context.Context, id string, req *dto.UpdateBranchRequest) (*model.Branch, error) {
	branch, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Timezone != nil {
		branch.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}
	if req.Settings != nil {
		branch.Settings = model.JSONMap(*req.Settings)
	}

	if err := s.repo.Branch.Update(ctx, branch); err != nil {
		s.logger.Error("店舗の更新に失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return branch, nil
}

// Deactivate 論理的に店舗を止める。最後の有効店舗は止められない
func (s *branchService) Deactivate(ctx context.Context, id string) error {
	active, err := s.repo.Branch.List(ctx, true)
	if err != nil {
		return err
	}
	if len(active) <= 1 {
		for _, b := range active {
			if b.ID == id {
				return ErrLastBranch
			}
		}
	}

	if err := s.repo.Branch.Deactivate(ctx, id); err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrBranchNotFound
		}
		s.logger.Error("店舗の無効化に失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// HardDelete 物理削除。constraints / user_branches は連鎖し、履歴行は残る
func (s *branchService) HardDelete(ctx context.Context, id string) error {
	total, err := s.repo.Branch.Count(ctx)
	if err != nil {
		return err
	}
	if total <= 1 {
		return ErrLastBranch
	}

	if err := s.repo.Branch.HardDelete(ctx, id); err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrBranchNotFound
		}
		s.logger.Error("店舗の物理削除に失敗", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("店舗を物理削除しました", zap.String("branch_id", id))
	return nil
}

// EnsureDefault デフォルト店舗と制約カタログの存在を保証する
func (s *branchService) EnsureDefault(ctx context.Context) (*model.Branch, error) {
	return s.seeder.Run(ctx)
}

// ────────────────────── 店舗権限 ──────────────────────

func (s *branchService) Grant(ctx context.Context, req *dto.GrantRequest) error {
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return ErrInvalidRole
	}

	if _, err := s.GetByID(ctx, req.BranchID); err != nil {
		return err
	}

	ub := &model.UserBranch{
		UserID:    req.UserID,
		BranchID:  req.BranchID,
		Role:      string(role),
		IsPrimary: req.IsPrimary,
	}
	if err := s.repo.UserBranch.Upsert(ctx, ub); err != nil {
		s.logger.Error("店舗権限の付与に失敗",
			zap.String("user_id", req.UserID), zap.String("branch_id", req.BranchID), zap.Error(err))
		return err
	}

	// 主店舗指定は同一ユーザーの他の主店舗フラグを落とす
	if req.IsPrimary {
		if err := s.repo.UserBranch.SetPrimary(ctx, req.UserID, req.BranchID); err != nil {
			return err
		}
	}

	s.logger.Info("店舗権限を付与しました",
		zap.String("user_id", req.UserID),
		zap.String("branch_id", req.BranchID),
		zap.String("role", req.Role))
	return nil
}

func (s *branchService) Revoke(ctx context.Context, userID, branchID string) error {
	if err := s.repo.UserBranch.Remove(ctx, userID, branchID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrGrantNotFound
		}
		s.logger.Error("店舗権限の剥奪に失敗",
			zap.String("user_id", userID), zap.String("branch_id", branchID), zap.Error(err))
		return err
	}
	return nil
}

func (s *branchService) SetPrimary(ctx context.Context, userID, branchID string) error {
	if err := s.repo.UserBranch.SetPrimary(ctx, userID, branchID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrGrantNotFound
		}
		s.logger.Error("主店舗の変更に失敗",
			zap.String("user_id", userID), zap.String("branch_id", branchID), zap.Error(err))
		return err
	}
	return nil
}

func (s *branchService) RoleOf(ctx context.Context, userID, branchID string) (string, error) {
	role, err := s.repo.UserBranch.GetRole(ctx, userID, branchID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return "", ErrGrantNotFound
		}
		return "", err
	}
	return role, nil
}

func (s *branchService) ListGrants(ctx context.Context, branchID string) ([]model.UserBranch, error) {
	return s.repo.UserBranch.ListByBranch(ctx, branchID)
}

func (s *branchService) ListUserBranches(ctx context.Context, userID string) ([]model.UserBranch, error) {
	return s.repo.UserBranch.ListByUser(ctx, userID)
}

// ────────────────────── シフトコード設定 ──────────────────────

func (s *branchService) ShiftCodes(ctx context.Context, branchID string) (*dto.ShiftCodeSettings, error) {
	branch, err := s.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return &dto.ShiftCodeSettings{
		DayShifts:   branch.DayShifts(),
		NightShifts: branch.NightShifts(),
	}, nil
}

func (s *branchService) UpdateShiftCodes(ctx context.Context, branchID string, codes *dto.ShiftCodeSettings) (*model.Branch, error) {
	branch, err := s.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if branch.Settings == nil {
		branch.Settings = model.JSONMap{}
	}
	branch.Settings["day_shifts"] = codes.DayShifts
	branch.Settings["night_shifts"] = codes.NightShifts

	if err := s.repo.Branch.Update(ctx, branch); err != nil {
		s.logger.Error("シフトコード設定の更新に失敗", zap.String("branch_id", branchID), zap.Error(err))
		return nil, err
	}
	return branch, nil
}
