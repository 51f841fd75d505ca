package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/internal/dto"
	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
	pkgerrors "github.com/taehong0711/shiftmaster/pkg/errors"
)

// ── シフトモジュール業務エラー ──

var (
	ErrInvalidMonth         = errors.New("月は 1〜12 の範囲で指定します")
	ErrNoRows               = errors.New("保存する行がありません")
	ErrMonthNotFound        = errors.New("該当月のシフト表がありません")
	ErrSummaryNotFound      = errors.New("該当月のサマリがありません")
	ErrSwapNotFound         = errors.New("交換申請が存在しません")
	ErrSwapAlreadyDecided   = errors.New("交換申請は既に処理済みです")
	ErrSwapSameStaff        = errors.New("申請者と相手に同じスタッフは指定できません")
	ErrSwapPartyRequired    = errors.New("申請者と相手は必須です")
	ErrInvalidSwapDate      = errors.New("交換日は YYYY-MM-DD 形式で指定します")
	ErrNotificationNotFound = errors.New("通知が存在しません")
	ErrNotificationTarget   = errors.New("通知の宛先は必須です")
)

// ShiftService 月次シフト表・交換申請・通知の業務インタフェース
type ShiftService interface {
	SaveMonth(ctx context.Context, branchID string, req *dto.SaveMonthRequest) ([]model.MonthlyShift, error)
	GetMonth(ctx context.Context, branchID string, year, month int) ([]model.MonthlyShift, error)
	DeleteMonth(ctx context.Context, branchID string, year, month int) error
	SavedMonths(ctx context.Context, branchID string) ([]repository.YearMonth, error)
	MonthSummary(ctx context.Context, branchID string, year, month int) (*model.MonthlyShiftSummary, error)

	CreateSwap(ctx context.Context, branchID string, req *dto.CreateSwapRequest) (*model.SwapRequest, error)
	ApproveSwap(ctx context.Context, id, approvedBy string) (*model.SwapRequest, error)
	RejectSwap(ctx context.Context, id, approvedBy string) (*model.SwapRequest, error)
	ListSwaps(ctx context.Context, branchID, status string) ([]model.SwapRequest, error)
	ListSwapsForStaff(ctx context.Context, branchID, staffName string) ([]model.SwapRequest, error)

	Notify(ctx context.Context, branchID string, req *dto.CreateNotificationRequest) (*model.Notification, error)
	Notifications(ctx context.Context, branchID, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, branchID, userID string) error
	UnreadCount(ctx context.Context, branchID, userID string) (int64, error)
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService ShiftService を作成する
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

// ────────────────────── 月次シフト表 ──────────────────────

// SaveMonth 月のシフト表を洗い替えで保存し、サマリも更新する
// 行の休日数・勤務日数はシフトコードから導出する
func (s *shiftService) SaveMonth(ctx context.Context, branchID string, req *dto.SaveMonthRequest) ([]model.MonthlyShift, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, ErrInvalidMonth
	}
	if len(req.Rows) == 0 {
		return nil, ErrNoRows
	}

	rows := make([]model.MonthlyShift, 0, len(req.Rows))
	totalOff, totalWork := 0, 0
	shiftCounts := map[string]int{}
	for _, in := range req.Rows {
		data := make(model.JSONMap, len(in.ShiftData))
		offDays, workDays := 0, 0
		for day, code := range in.ShiftData {
			data[day] = code
			if code == "" {
				continue
			}
			shiftCounts[code]++
			if model.IsOffCode(code) {
				offDays++
			} else {
				workDays++
			}
		}
		totalOff += offDays
		totalWork += workDays
		rows = append(rows, model.MonthlyShift{
			StaffName: in.StaffName,
			ShiftData: data,
			OffDays:   offDays,
			WorkDays:  workDays,
			CreatedBy: req.CreatedBy,
		})
	}

	if err := s.repo.MonthlyShift.ReplaceMonth(ctx, branchID, req.Year, req.Month, rows); err != nil {
		s.logger.Error("月次シフト表の保存に失敗",
			zap.String("branch_id", branchID), zap.Int("year", req.Year), zap.Int("month", req.Month), zap.Error(err))
		return nil, err
	}

	counts := make(model.JSONMap, len(shiftCounts))
	for code, n := range shiftCounts {
		counts[code] = n
	}
	summary := &model.MonthlyShiftSummary{
		BranchID: branchID,
		Year:     req.Year,
		Month:    req.Month,
		SummaryData: model.JSONMap{
			"staff_count":     len(rows),
			"total_off_days":  totalOff,
			"total_work_days": totalWork,
			"shift_counts":    counts,
		},
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.MonthlyShift.UpsertSummary(ctx, summary); err != nil {
		s.logger.Error("月次サマリの更新に失敗",
			zap.String("branch_id", branchID), zap.Int("year", req.Year), zap.Int("month", req.Month), zap.Error(err))
		return nil, err
	}

	s.logger.Info("月次シフト表を保存",
		zap.String("branch_id", branchID), zap.Int("year", req.Year), zap.Int("month", req.Month),
		zap.Int("rows", len(rows)))
	return rows, nil
}

func (s *shiftService) GetMonth(ctx context.Context, branchID string, year, month int) ([]model.MonthlyShift, error) {
	rows, err := s.repo.MonthlyShift.ListMonth(ctx, branchID, year, month)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrMonthNotFound
	}
	return rows, nil
}

func (s *shiftService) DeleteMonth(ctx context.Context, branchID string, year, month int) error {
	return s.repo.MonthlyShift.DeleteMonth(ctx, branchID, year, month)
}

func (s *shiftService) SavedMonths(ctx context.Context, branchID string) ([]repository.YearMonth, error) {
	return s.repo.MonthlyShift.SavedMonths(ctx, branchID)
}

func (s *shiftService) MonthSummary(ctx context.Context, branchID string, year, month int) (*model.MonthlyShiftSummary, error) {
	summary, err := s.repo.MonthlyShift.GetSummary(ctx, branchID, year, month)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrSummaryNotFound
		}
		return nil, err
	}
	return summary, nil
}

// ────────────────────── 交換申請 ──────────────────────

func (s *shiftService) CreateSwap(ctx context.Context, branchID string, req *dto.CreateSwapRequest) (*model.SwapRequest, error) {
	if req.Requester == "" || req.Target == "" {
		return nil, ErrSwapPartyRequired
	}
	if req.Requester == req.Target {
		return nil, ErrSwapSameStaff
	}
	swapDate, err := time.Parse("2006-01-02", req.SwapDate)
	if err != nil {
		return nil, ErrInvalidSwapDate
	}

	swap := &model.SwapRequest{
		BranchID:       branchID,
		Requester:      req.Requester,
		Target:         req.Target,
		SwapDate:       swapDate,
		RequesterShift: req.RequesterShift,
		TargetShift:    req.TargetShift,
		Reason:         req.Reason,
		Status:         model.SwapStatusPending,
	}
	if err := s.repo.Swap.Create(ctx, swap); err != nil {
		s.logger.Error("交換申請の作成に失敗", zap.String("branch_id", branchID), zap.Error(err))
		return nil, err
	}
	return swap, nil
}

func (s *shiftService) ApproveSwap(ctx context.Context, id, approvedBy string) (*model.SwapRequest, error) {
	return s.decideSwap(ctx, id, model.SwapStatusApproved, approvedBy)
}

func (s *shiftService) RejectSwap(ctx context.Context, id, approvedBy string) (*model.SwapRequest, error) {
	return s.decideSwap(ctx, id, model.SwapStatusRejected, approvedBy)
}

// decideSwap pending の申請だけを確定させる
func (s *shiftService) decideSwap(ctx context.Context, id, status, approvedBy string) (*model.SwapRequest, error) {
	swap, err := s.repo.Swap.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	if swap.Status != model.SwapStatusPending {
		return nil, ErrSwapAlreadyDecided
	}

	if err := s.repo.Swap.UpdateStatus(ctx, id, status, approvedBy); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("交換申請の更新に失敗", zap.String("id", id), zap.String("status", status), zap.Error(err))
		return nil, err
	}
	return s.repo.Swap.GetByID(ctx, id)
}

func (s *shiftService) ListSwaps(ctx context.Context, branchID, status string) ([]model.SwapRequest, error) {
	return s.repo.Swap.ListByBranch(ctx, branchID, status)
}

func (s *shiftService) ListSwapsForStaff(ctx context.Context, branchID, staffName string) ([]model.SwapRequest, error) {
	return s.repo.Swap.ListForStaff(ctx, branchID, staffName)
}

// ────────────────────── 通知 ──────────────────────

func (s *shiftService) Notify(ctx context.Context, branchID string, req *dto.CreateNotificationRequest) (*model.Notification, error) {
	if req.UserID == "" {
		return nil, ErrNotificationTarget
	}

	n := &model.Notification{
		BranchID: branchID,
		UserID:   req.UserID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
	}
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("通知の作成に失敗", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}
	return n, nil
}

func (s *shiftService) Notifications(ctx context.Context, branchID, userID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	return s.repo.Notification.List(ctx, branchID, userID, unreadOnly, limit)
}

func (s *shiftService) MarkRead(ctx context.Context, id string) error {
	err := s.repo.Notification.MarkRead(ctx, id)
	if pkgerrors.IsNotFound(err) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *shiftService) MarkAllRead(ctx context.Context, branchID, userID string) error {
	return s.repo.Notification.MarkAllRead(ctx, branchID, userID)
}

func (s *shiftService) UnreadCount(ctx context.Context, branchID, userID string) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, branchID, userID)
}
