package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/internal/dto"
	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
	"github.com/taehong0711/shiftmaster/internal/rules"
	"github.com/taehong0711/shiftmaster/internal/seed"
	pkgerrors "github.com/taehong0711/shiftmaster/pkg/errors"
)

// ── 制約モジュール業務エラー ──

var (
	ErrConstraintNotFound  = errors.New("制約が存在しません")
	ErrConstraintCodeTaken = errors.New("制約コードが既に使われています")
	ErrConstraintRequired  = errors.New("制約名・コード・カテゴリは必須です")
	ErrInvalidCategory     = errors.New("カテゴリは coverage / sequence / balance / preference / skill のいずれかです")
	ErrInvalidType         = errors.New("制約種別は hard / soft のいずれかです")
	ErrInvalidRule         = errors.New("rule_definition が JSON ドキュメントとして不正です")
	ErrUnknownPreset       = errors.New("プリセットは strict / normal / flexible のいずれかです")
	ErrImportVersion       = errors.New("エクスポート文書のバージョンが未対応です")
)

// エクスポート文書のフォーマットバージョン
const exportVersion = 1

// 重みプリセット。ソフト制約のデフォルト重みに掛ける倍率
var presetMultipliers = map[string]float64{
	"strict":   2.0,
	"normal":   1.0,
	"flexible": 0.5,
}

// ConstraintService 制約カタログの業務インタフェース
type ConstraintService interface {
	Create(ctx context.Context, branchID string, req *dto.CreateConstraintRequest) (*model.Constraint, error)
	GetByID(ctx context.Context, id string) (*model.Constraint, error)
	GetByCode(ctx context.Context, branchID, code string) (*model.Constraint, error)
	List(ctx context.Context, branchID string) ([]model.Constraint, error)
	ListEnabled(ctx context.Context, branchID string) ([]model.Constraint, error)
	ListByCategory(ctx context.Context, branchID, category string) ([]model.Constraint, error)
	ListHard(ctx context.Context, branchID string) ([]model.Constraint, error)
	ListSoft(ctx context.Context, branchID string) ([]model.Constraint, error)
	Update(ctx context.Context, id string, req *dto.UpdateConstraintRequest) (*model.Constraint, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string, enabled bool) error
	SetWeight(ctx context.Context, id string, weight int) error
	SetPriority(ctx context.Context, id string, priority int) error
	Reorder(ctx context.Context, branchID string, orderedIDs []string) error

	InitDefaults(ctx context.Context, branchID string) (int, error)
	ApplyPreset(ctx context.Context, branchID, preset string) (int, error)
	ExportJSON(ctx context.Context, branchID string) (*dto.ConstraintExport, error)
	ImportJSON(ctx context.Context, branchID string, doc *dto.ConstraintExport, replace bool) (int, error)
	Summary(ctx context.Context, branchID string) (*dto.ConstraintSummary, error)
}

type constraintService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConstraintService ConstraintService を作成する
func NewConstraintService(repo *repository.Repository, logger *zap.Logger) ConstraintService {
	return &constraintService{repo: repo, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *constraintService) Create(ctx context.Context, branchID string, req *dto.CreateConstraintRequest) (*model.Constraint, error) {
	if req.Name == "" || req.Code == "" || req.Category == "" {
		return nil, ErrConstraintRequired
	}
	if !validCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	ctype := req.ConstraintType
	if ctype == "" {
		ctype = model.ConstraintSoft
	}
	if !validConstraintType(ctype) {
		return nil, ErrInvalidType
	}
	rawRule, err := normalizeRule(req.RuleDefinition)
	if err != nil {
		return nil, err
	}

	c := &model.Constraint{
		BranchID:       branchID,
		Name:           req.Name,
		Code:           req.Code,
		Category:       req.Category,
		ConstraintType: ctype,
		IsEnabled:      true,
		PenaltyWeight:  10000,
		PriorityOrder:  50,
		RuleDefinition: rawRule,
	}
	if req.PenaltyWeight != nil {
		c.PenaltyWeight = *req.PenaltyWeight
	}
	if req.PriorityOrder != nil {
		c.PriorityOrder = *req.PriorityOrder
	}

	if err := s.repo.Constraint.Create(ctx, c); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrConstraintCodeTaken
		}
		s.logger.Error("制約の作成に失敗",
			zap.String("branch_id", branchID), zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *constraintService) GetByID(ctx context.Context, id string) (*model.Constraint, error) {
	c, err := s.repo.Constraint.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrConstraintNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *constraintService) GetByCode(ctx context.Context, branchID, code string) (*model.Constraint, error) {
	c, err := s.repo.Constraint.GetByCode(ctx, branchID, code)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrConstraintNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *constraintService) List(ctx context.Context, branchID string) ([]model.Constraint, error) {
	return s.repo.Constraint.ListByBranch(ctx, branchID)
}

func (s *constraintService) ListEnabled(ctx context.Context, branchID string) ([]model.Constraint, error) {
	return s.repo.Constraint.ListEnabled(ctx, branchID)
}

func (s *constraintService) ListByCategory(ctx context.Context, branchID, category string) ([]model.Constraint, error) {
	if !validCategory(category) {
		return nil, ErrInvalidCategory
	}
	list, err := s.repo.Constraint.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Constraint, 0, len(list))
	for _, c := range list {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *constraintService) ListHard(ctx context.Context, branchID string) ([]model.Constraint, error) {
	return s.listByType(ctx, branchID, model.ConstraintHard)
}

func (s *constraintService) ListSoft(ctx context.Context, branchID string) ([]model.Constraint, error) {
	return s.listByType(ctx, branchID, model.ConstraintSoft)
}

func (s *constraintService) listByType(ctx context.Context, branchID, ctype string) ([]model.Constraint, error) {
	list, err := s.repo.Constraint.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Constraint, 0, len(list))
	for _, c := range list {
		if c.ConstraintType == ctype {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *constraintService) Update(ctx context.Context, id string, req *dto.UpdateConstraintRequest) (*model.Constraint, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		c.Category = *req.Category
	}
	if req.ConstraintType != nil {
		if !validConstraintType(*req.ConstraintType) {
			return nil, ErrInvalidType
		}
		c.ConstraintType = *req.ConstraintType
	}
	if req.IsEnabled != nil {
		c.IsEnabled = *req.IsEnabled
	}
	if req.PenaltyWeight != nil {
		c.PenaltyWeight = *req.PenaltyWeight
	}
	if req.PriorityOrder != nil {
		c.PriorityOrder = *req.PriorityOrder
	}
	if req.RuleDefinition != nil {
		raw, err := normalizeRule(req.RuleDefinition)
		if err != nil {
			return nil, err
		}
		c.RuleDefinition = raw
	}

	if err := s.repo.Constraint.Update(ctx, c); err != nil {
		s.logger.Error("制約の更新に失敗", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *constraintService) Delete(ctx context.Context, id string) error {
	err := s.repo.Constraint.Delete(ctx, id)
	if pkgerrors.IsNotFound(err) {
		return ErrConstraintNotFound
	}
	return err
}

func (s *constraintService) Toggle(ctx context.Context, id string, enabled bool) error {
	err := s.repo.Constraint.SetEnabled(ctx, id, enabled)
	if pkgerrors.IsNotFound(err) {
		return ErrConstraintNotFound
	}
	return err
}

func (s *constraintService) SetWeight(ctx context.Context, id string, weight int) error {
	err := s.repo.Constraint.SetWeight(ctx, id, weight)
	if pkgerrors.IsNotFound(err) {
		return ErrConstraintNotFound
	}
	return err
}

func (s *constraintService) SetPriority(ctx context.Context, id string, priority int) error {
	err := s.repo.Constraint.SetPriority(ctx, id, priority)
	if pkgerrors.IsNotFound(err) {
		return ErrConstraintNotFound
	}
	return err
}

func (s *constraintService) Reorder(ctx context.Context, branchID string, orderedIDs []string) error {
	return s.repo.Constraint.Reorder(ctx, branchID, orderedIDs)
}

// ────────────────────── InitDefaults ──────────────────────

// InitDefaults デフォルト制約カタログを投入する。既に制約を持つ店舗では何もしない
func (s *constraintService) InitDefaults(ctx context.Context, branchID string) (int, error) {
	count, err := s.repo.Constraint.CountByBranch(ctx, branchID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	defaults, err := seed.DefaultConstraints(branchID)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Constraint.BatchCreate(ctx, defaults); err != nil {
		s.logger.Error("デフォルト制約の投入に失敗", zap.String("branch_id", branchID), zap.Error(err))
		return 0, err
	}
	return len(defaults), nil
}

// ────────────────────── ApplyPreset ──────────────────────

// ApplyPreset ソフト制約の重みをプリセット倍率で一括調整する
// 対象はデフォルトカタログ由来のソフト制約のみ。ハード制約と独自制約は触らない
func (s *constraintService) ApplyPreset(ctx context.Context, branchID, preset string) (int, error) {
	mult, ok := presetMultipliers[preset]
	if !ok {
		return 0, ErrUnknownPreset
	}

	list, err := s.repo.Constraint.ListByBranch(ctx, branchID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, c := range list {
		if c.IsHard() {
			continue
		}
		base, ok := seed.DefaultWeight(c.Code)
		if !ok {
			continue
		}
		weight := int(float64(base) * mult)
		if weight == c.PenaltyWeight {
			continue
		}
		if err := s.repo.Constraint.SetWeight(ctx, c.ID, weight); err != nil {
			s.logger.Error("プリセット適用中の重み更新に失敗",
				zap.String("id", c.ID), zap.String("code", c.Code), zap.Error(err))
			return updated, err
		}
		updated++
	}

	s.logger.Info("重みプリセットを適用",
		zap.String("branch_id", branchID), zap.String("preset", preset), zap.Int("updated", updated))
	return updated, nil
}

// ────────────────────── エクスポート / インポート ──────────────────────

// ExportJSON 店舗の制約カタログを可搬文書へ書き出す
func (s *constraintService) ExportJSON(ctx context.Context, branchID string) (*dto.ConstraintExport, error) {
	branch, err := s.repo.Branch.GetByID(ctx, branchID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}

	list, err := s.repo.Constraint.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	doc := &dto.ConstraintExport{
		Version:     exportVersion,
		BranchCode:  branch.Code,
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Constraints: make([]dto.ConstraintPayload, 0, len(list)),
	}
	for _, c := range list {
		doc.Constraints = append(doc.Constraints, dto.ConstraintPayload{
			Name:           c.Name,
			Code:           c.Code,
			Category:       c.Category,
			ConstraintType: c.ConstraintType,
			IsEnabled:      c.IsEnabled,
			PenaltyWeight:  c.PenaltyWeight,
			PriorityOrder:  c.PriorityOrder,
			RuleDefinition: c.RuleDefinition.JSON(),
		})
	}
	return doc, nil
}

// ImportJSON 可搬文書の制約を店舗へ取り込む
// replace=true のときは既存カタログを消してから投入する
func (s *constraintService) ImportJSON(ctx context.Context, branchID string, doc *dto.ConstraintExport, replace bool) (int, error) {
	if doc.Version != exportVersion {
		return 0, ErrImportVersion
	}

	batch := make([]model.Constraint, 0, len(doc.Constraints))
	for _, p := range doc.Constraints {
		if p.Name == "" || p.Code == "" || !validCategory(p.Category) || !validConstraintType(p.ConstraintType) {
			return 0, ErrConstraintRequired
		}
		raw, err := normalizeRule(p.RuleDefinition)
		if err != nil {
			return 0, err
		}
		batch = append(batch, model.Constraint{
			BranchID:       branchID,
			Name:           p.Name,
			Code:           p.Code,
			Category:       p.Category,
			ConstraintType: p.ConstraintType,
			IsEnabled:      p.IsEnabled,
			PenaltyWeight:  p.PenaltyWeight,
			PriorityOrder:  p.PriorityOrder,
			RuleDefinition: raw,
		})
	}

	if replace {
		if err := s.repo.Constraint.DeleteByBranch(ctx, branchID); err != nil {
			return 0, err
		}
	}
	if err := s.repo.Constraint.BatchCreate(ctx, batch); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return 0, ErrConstraintCodeTaken
		}
		s.logger.Error("制約のインポートに失敗", zap.String("branch_id", branchID), zap.Error(err))
		return 0, err
	}

	s.logger.Info("制約をインポート",
		zap.String("branch_id", branchID), zap.Int("count", len(batch)), zap.Bool("replace", replace))
	return len(batch), nil
}

// ────────────────────── Summary ──────────────────────

func (s *constraintService) Summary(ctx context.Context, branchID string) (*dto.ConstraintSummary, error) {
	list, err := s.repo.Constraint.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	sum := &dto.ConstraintSummary{
		Total:      len(list),
		ByCategory: make(map[string]int),
	}
	for _, c := range list {
		if c.IsEnabled {
			sum.Enabled++
		} else {
			sum.Disabled++
		}
		if c.IsHard() {
			sum.Hard++
		} else {
			sum.Soft++
		}
		sum.ByCategory[c.Category]++
	}
	return sum, nil
}

// ── 内部補助 ──

func validCategory(cat string) bool {
	switch cat {
	case model.CategoryCoverage, model.CategorySequence, model.CategoryBalance,
		model.CategoryPreference, model.CategorySkill:
		return true
	}
	return false
}

func validConstraintType(t string) bool {
	return t == model.ConstraintHard || t == model.ConstraintSoft
}

// normalizeRule rule_definition を検証し、保存用バイト列へ整える
// 未知 type は不透明ドキュメントとしてそのまま通す
func normalizeRule(raw []byte) (model.JSONRaw, error) {
	if len(raw) == 0 {
		return model.JSONRaw("{}"), nil
	}
	def, err := rules.Decode(raw)
	if err != nil {
		return nil, ErrInvalidRule
	}
	enc, err := def.Encode()
	if err != nil {
		return nil, ErrInvalidRule
	}
	return model.JSONRaw(enc), nil
}
