package service

import (
	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/config"
	"github.com/taehong0711/shiftmaster/internal/repository"
	"github.com/taehong0711/shiftmaster/internal/seed"
)

// Service 全 Service の集約エントリ
type Service struct {
	Branch     BranchService
	Staff      StaffService
	Constraint ConstraintService
	Shift      ShiftService
	Export     ExportService
}

// NewService Service 集約を作成する
func NewService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *Service {
	seeder := seed.NewSeeder(repo, &cfg.Seed, logger)
	return &Service{
		Branch:     NewBranchService(repo, seeder, logger),
		Staff:      NewStaffService(repo, logger),
		Constraint: NewConstraintService(repo, logger),
		Shift:      NewShiftService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
