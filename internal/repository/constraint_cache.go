package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/pkg/redis"
)

// cachedConstraintRepo 有効制約カタログ（ソルバーの読み取り面）を
// Redis で読み取りキャッシュする装飾。書き込みは店舗単位で無効化する。
// キャッシュ無しでも意味は変わらない
type cachedConstraintRepo struct {
	ConstraintRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewCachedConstraintRepo ConstraintRepository にカタログキャッシュを被せる
// cache が nil の場合は素の Repository をそのまま返す
func NewCachedConstraintRepo(inner ConstraintRepository, cache *redis.Client, logger *zap.Logger) ConstraintRepository {
	if cache == nil {
		return inner
	}
	return &cachedConstraintRepo{ConstraintRepository: inner, cache: cache, logger: logger}
}

func catalogKey(branchID string) string {
	return "constraints:catalog:" + branchID
}

func (r *cachedConstraintRepo) ListEnabled(ctx context.Context, branchID string) ([]model.Constraint, error) {
	key := catalogKey(branchID)

	var cached []model.Constraint
	hit, err := r.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("カタログキャッシュの読み取りに失敗", zap.String("branch_id", branchID), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	list, err := r.ConstraintRepository.ListEnabled(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, key, list); err != nil {
		r.logger.Warn("カタログキャッシュの書き込みに失敗", zap.String("branch_id", branchID), zap.Error(err))
	}
	return list, nil
}

// ── 書き込み系は inner を呼んだ後に店舗のキャッシュを無効化する ──

func (r *cachedConstraintRepo) Create(ctx context.Context, c *model.Constraint) error {
	if err := r.ConstraintRepository.Create(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx, c.BranchID)
	return nil
}

func (r *cachedConstraintRepo) BatchCreate(ctx context.Context, cs []model.Constraint) error {
	if err := r.ConstraintRepository.BatchCreate(ctx, cs); err != nil {
		return err
	}
	if len(cs) > 0 {
		r.invalidate(ctx, cs[0].BranchID)
	}
	return nil
}

func (r *cachedConstraintRepo) Update(ctx context.Context, c *model.Constraint) error {
	if err := r.ConstraintRepository.Update(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx, c.BranchID)
	return nil
}

func (r *cachedConstraintRepo) Delete(ctx context.Context, id string) error {
	branchID := r.branchOf(ctx, id)
	if err := r.ConstraintRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, branchID)
	return nil
}

func (r *cachedConstraintRepo) DeleteByBranch(ctx context.Context, branchID string) error {
	if err := r.ConstraintRepository.DeleteByBranch(ctx, branchID); err != nil {
		return err
	}
	r.invalidate(ctx, branchID)
	return nil
}

func (r *cachedConstraintRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	branchID := r.branchOf(ctx, id)
	if err := r.ConstraintRepository.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}
	r.invalidate(ctx, branchID)
	return nil
}

func (r *cachedConstraintRepo) SetWeight(ctx context.Context, id string, weight int) error {
	branchID := r.branchOf(ctx, id)
	if err := r.ConstraintRepository.SetWeight(ctx, id, weight); err != nil {
		return err
	}
	r.invalidate(ctx, branchID)
	return nil
}

func (r *cachedConstraintRepo) SetPriority(ctx context.Context, id string, priority int) error {
	branchID := r.branchOf(ctx, id)
	if err := r.ConstraintRepository.SetPriority(ctx, id, priority); err != nil {
		return err
	}
	r.invalidate(ctx, branchID)
	return nil
}

func (r *cachedConstraintRepo) Reorder(ctx context.Context, branchID string, orderedIDs []string) error {
	if err := r.ConstraintRepository.Reorder(ctx, branchID, orderedIDs); err != nil {
		return err
	}
	r.invalidate(ctx, branchID)
	return nil
}

func (r *cachedConstraintRepo) invalidate(ctx context.Context, branchID string) {
	if branchID == "" {
		return
	}
	if err := r.cache.Delete(ctx, catalogKey(branchID)); err != nil {
		r.logger.Warn("カタログキャッシュの無効化に失敗", zap.String("branch_id", branchID), zap.Error(err))
	}
}

// branchOf ID 指定の書き込みで無効化対象の店舗を引く。見つからなければ空文字
func (r *cachedConstraintRepo) branchOf(ctx context.Context, id string) string {
	c, err := r.ConstraintRepository.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return c.BranchID
}
