package service

import (
	"bytes"
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/internal/export"
	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
	"github.com/taehong0711/shiftmaster/internal/seed"
	pkgerrors "github.com/taehong0711/shiftmaster/pkg/errors"
)

// ── 出力モジュール業務エラー ──

var ErrExportGenerateFail = errors.New("出力ファイルの生成に失敗しました")

// ExportService 月次シフト表のファイル出力インタフェース
//
// 設計メモ：
//   - 出力は bytes.Buffer で返し、書き出し先（ファイル・レスポンス）は呼び出し側が決める
//   - Excel は店舗の 1 か月分、iCalendar はスタッフ 1 人の 1 か月分
type ExportService interface {
	// MonthExcel 月次シフト表を Excel に出力する
	MonthExcel(ctx context.Context, branchID string, year, month int) (*bytes.Buffer, string, error)
	// StaffICS スタッフ 1 人の月次シフトを iCalendar に出力する
	StaffICS(ctx context.Context, branchID, staffName string, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService ExportService を作成する
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── MonthExcel ──────────────────────

func (s *exportService) MonthExcel(ctx context.Context, branchID string, year, month int) (*bytes.Buffer, string, error) {
	if month < 1 || month > 12 {
		return nil, "", ErrInvalidMonth
	}

	branch, err := s.repo.Branch.GetByID(ctx, branchID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, "", ErrBranchNotFound
		}
		s.logger.Error("店舗の取得に失敗", zap.String("branch_id", branchID), zap.Error(err))
		return nil, "", err
	}

	rows, err := s.repo.MonthlyShift.ListMonth(ctx, branchID, year, month)
	if err != nil {
		s.logger.Error("月次シフト表の取得に失敗",
			zap.String("branch_id", branchID), zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrMonthNotFound
	}

	buf, filename, err := export.MonthWorkbook(export.MonthGrid{
		BranchName: branch.Name,
		BranchCode: branch.Code,
		Year:       year,
		Month:      month,
		NightCodes: nightCodesOf(branch),
		Rows:       rows,
	})
	if err != nil {
		s.logger.Error("Excel の生成に失敗",
			zap.String("branch_id", branchID), zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, filename, nil
}

// ────────────────────── StaffICS ──────────────────────

func (s *exportService) StaffICS(ctx context.Context, branchID, staffName string, year, month int) (*bytes.Buffer, string, error) {
	if month < 1 || month > 12 {
		return nil, "", ErrInvalidMonth
	}

	branch, err := s.repo.Branch.GetByID(ctx, branchID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, "", ErrBranchNotFound
		}
		s.logger.Error("店舗の取得に失敗", zap.String("branch_id", branchID), zap.Error(err))
		return nil, "", err
	}

	rows, err := s.repo.MonthlyShift.ListMonth(ctx, branchID, year, month)
	if err != nil {
		s.logger.Error("月次シフト表の取得に失敗",
			zap.String("branch_id", branchID), zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrMonthNotFound
	}

	var row *model.MonthlyShift
	for i := range rows {
		if rows[i].StaffName == staffName {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return nil, "", ErrStaffNotFound
	}

	buf, filename, err := export.StaffCalendar(export.StaffMonth{
		BranchName: branch.Name,
		BranchCode: branch.Code,
		Year:       year,
		Month:      month,
		Row:        row,
	})
	if err != nil {
		s.logger.Error("iCalendar の生成に失敗",
			zap.String("branch_id", branchID), zap.String("staff_name", staffName), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, filename, nil
}

// nightCodesOf 店舗設定の夜勤コード。未設定なら既定のコード一覧
func nightCodesOf(branch *model.Branch) []string {
	if codes := branch.NightShifts(); len(codes) > 0 {
		return codes
	}
	return seed.DefaultNightShifts
}
