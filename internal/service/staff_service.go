package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/internal/dto"
	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
	pkgerrors "github.com/taehong0711/shiftmaster/pkg/errors"
)

// ── スタッフモジュール業務エラー ──

var (
	ErrStaffNotFound  = errors.New("スタッフが存在しません")
	ErrStaffNameEmpty = errors.New("スタッフ名は必須です")
	ErrStaffNameTaken = errors.New("同名のスタッフが既に在籍しています")
)

// StaffService スタッフの業務インタフェース
// 変更は監査行（staff_audit）と同一トランザクションで確定する
type StaffService interface {
	Create(ctx context.Context, branchID string, req *dto.CreateStaffRequest, performedBy string) (*model.Staff, error)
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	GetByName(ctx context.Context, branchID, name string) (*model.Staff, error)
	List(ctx context.Context, branchID string, includeInactive bool) ([]model.Staff, error)
	Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, performedBy string) (*model.Staff, error)
	Deactivate(ctx context.Context, id, performedBy string) error

	ListBySkill(ctx context.Context, branchID, skill string) ([]model.Staff, error)
	NightCapable(ctx context.Context, branchID string) ([]model.Staff, error)
	L1Capable(ctx context.Context, branchID string) ([]model.Staff, error)
	Stats(ctx context.Context, branchID string) (*dto.StaffStats, error)
	AuditTrail(ctx context.Context, staffID string, limit int) ([]model.StaffAudit, error)
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService StaffService を作成する
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *staffService) Create(ctx context.Context, branchID string, req *dto.CreateStaffRequest, performedBy string) (*model.Staff, error) {
	if req.Name == "" {
		return nil, ErrStaffNameEmpty
	}

	// 月次グリッドはスタッフ名を行キーにするため、在籍中の同名は弾く
	if existing, err := s.repo.Staff.GetByName(ctx, branchID, req.Name); err == nil && existing.IsActive {
		return nil, ErrStaffNameTaken
	} else if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	staff := &model.Staff{
		BranchID:     branchID,
		Name:         req.Name,
		Gender:       req.Gender,
		Role:         req.Role,
		TargetOff:    8,
		Nenkyu:       req.Nenkyu,
		Skills:       model.JoinTags(req.Skills),
		Prefer:       model.JoinTags(req.Prefer),
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if staff.Gender == "" {
		staff.Gender = "M"
	}
	if staff.Role == "" {
		staff.Role = model.StaffRoleStaff
	}
	if req.TargetOff != nil {
		staff.TargetOff = *req.TargetOff
	}

	// 本体と監査行は同一トランザクションで書く
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("トランザクション開始に失敗", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Staff.Create(ctx, staff); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("スタッフの作成に失敗", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	if err := txRepo.Staff.AppendAudit(ctx, &model.StaffAudit{
		BranchID:    branchID,
		StaffID:     staff.ID,
		Action:      model.AuditActionCreate,
		AfterData:   staffSnapshot(staff),
		PerformedBy: performedBy,
	}); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("監査行の追記に失敗", zap.String("staff_id", staff.ID), zap.Error(err))
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("トランザクション確定に失敗", zap.Error(err))
			return nil, err
		}
	}

	return staff, nil
}

func (s *staffService) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("スタッフの取得に失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return staff, nil
}

func (s *staffService) GetByName(ctx context.Context, branchID, name string) (*model.Staff, error) {
	staff, err := s.repo.Staff.GetByName(ctx, branchID, name)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

func (s *staffService) List(ctx context.Context, branchID string, includeInactive bool) ([]model.Staff, error) {
	list, err := s.repo.Staff.ListByBranch(ctx, branchID, includeInactive)
	if err != nil {
		s.logger.Error("スタッフ一覧の取得に失敗", zap.String("branch_id", branchID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *staffService) Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, performedBy string) (*model.Staff, error) {
	staff, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := staffSnapshot(staff)

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrStaffNameEmpty
		}
		staff.Name = *req.Name
	}
	if req.Gender != nil {
		staff.Gender = *req.Gender
	}
	if req.Role != nil {
		staff.Role = *req.Role
	}
	if req.TargetOff != nil {
		staff.TargetOff = *req.TargetOff
	}
	if req.Nenkyu != nil {
		staff.Nenkyu = *req.Nenkyu
	}
	if req.Skills != nil {
		staff.Skills = model.JoinTags(*req.Skills)
	}
	if req.Prefer != nil {
		staff.Prefer = model.JoinTags(*req.Prefer)
	}
	if req.DisplayOrder != nil {
		staff.DisplayOrder = *req.DisplayOrder
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("トランザクション開始に失敗", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Staff.Update(ctx, staff); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("スタッフの更新に失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if err := txRepo.Staff.AppendAudit(ctx, &model.StaffAudit{
		BranchID:    staff.BranchID,
		StaffID:     staff.ID,
		Action:      model.AuditActionUpdate,
		BeforeData:  before,
		AfterData:   staffSnapshot(staff),
		PerformedBy: performedBy,
	}); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("監査行の追記に失敗", zap.String("staff_id", id), zap.Error(err))
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("トランザクション確定に失敗", zap.Error(err))
			return nil, err
		}
	}

	return staff, nil
}

// Deactivate 在籍フラグを落とす。行は消さず、監査行を残す
func (s *staffService) Deactivate(ctx context.Context, id, performedBy string) error {
	staff, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("トランザクション開始に失敗", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Staff.Deactivate(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if pkgerrors.IsNotFound(err) {
			return ErrStaffNotFound
		}
		s.logger.Error("スタッフの無効化に失敗", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := txRepo.Staff.AppendAudit(ctx, &model.StaffAudit{
		BranchID:    staff.BranchID,
		StaffID:     staff.ID,
		Action:      model.AuditActionDeactivate,
		BeforeData:  staffSnapshot(staff),
		PerformedBy: performedBy,
	}); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("監査行の追記に失敗", zap.String("staff_id", id), zap.Error(err))
		return err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("トランザクション確定に失敗", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── スキル・集計 ──────────────────────

func (s *staffService) ListBySkill(ctx context.Context, branchID, skill string) ([]model.Staff, error) {
	list, err := s.repo.Staff.ListByBranch(ctx, branchID, false)
	if err != nil {
		return nil, err
	}
	matched := make([]model.Staff, 0, len(list))
	for _, st := range list {
		if st.HasSkill(skill) {
			matched = append(matched, st)
		}
	}
	return matched, nil
}

func (s *staffService) NightCapable(ctx context.Context, branchID string) ([]model.Staff, error) {
	return s.ListBySkill(ctx, branchID, model.SkillNight)
}

func (s *staffService) L1Capable(ctx context.Context, branchID string) ([]model.Staff, error) {
	return s.ListBySkill(ctx, branchID, model.SkillL1)
}

func (s *staffService) Stats(ctx context.Context, branchID string) (*dto.StaffStats, error) {
	list, err := s.repo.Staff.ListByBranch(ctx, branchID, true)
	if err != nil {
		return nil, err
	}

	stats := &dto.StaffStats{Total: len(list)}
	for _, st := range list {
		if st.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
			continue
		}
		if st.Role == model.StaffRoleManager {
			stats.Managers++
		} else {
			stats.Staff++
		}
		switch st.Gender {
		case "M":
			stats.Male++
		case "F":
			stats.Female++
		}
		if st.NightCapable() {
			stats.NightCapable++
		}
		if st.L1Capable() {
			stats.L1Capable++
		}
	}
	return stats, nil
}

func (s *staffService) AuditTrail(ctx context.Context, staffID string, limit int) ([]model.StaffAudit, error) {
	return s.repo.Staff.ListAudit(ctx, staffID, limit)
}

// ── 内部補助 ──

// staffSnapshot 監査行に残すスタッフの全量スナップショット
func staffSnapshot(st *model.Staff) model.JSONMap {
	return model.JSONMap{
		"name":          st.Name,
		"gender":        st.Gender,
		"role":          st.Role,
		"target_off":    st.TargetOff,
		"nenkyu":        st.Nenkyu,
		"skills":        st.Skills,
		"prefer":        st.Prefer,
		"display_order": st.DisplayOrder,
		"is_active":     st.IsActive,
	}
}
