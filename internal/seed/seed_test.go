package seed

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/config"
	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
)

// ── テスト補助 ──

type fakeBranchRepo struct {
	branches map[string]*model.Branch // id → branch
	seq      int
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{branches: make(map[string]*model.Branch)}
}

func (f *fakeBranchRepo) Create(_ context.Context, b *model.Branch) error {
	for _, existing := range f.branches {
		if existing.Code == b.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	f.seq++
	if b.ID == "" {
		b.ID = string(rune('a'+f.seq-1)) + "-branch"
	}
	clone := *b
	f.branches[b.ID] = &clone
	return nil
}

func (f *fakeBranchRepo) GetByID(_ context.Context, id string) (*model.Branch, error) {
	if b, ok := f.branches[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBranchRepo) GetByCode(_ context.Context, code string) (*model.Branch, error) {
	for _, b := range f.branches {
		if b.Code == code {
			clone := *b
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBranchRepo) List(_ context.Context, _ bool) ([]model.Branch, error) { return nil, nil }
func (f *fakeBranchRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.branches)), nil
}
func (f *fakeBranchRepo) Update(_ context.Context, _ *model.Branch) error   { return nil }
func (f *fakeBranchRepo) Deactivate(_ context.Context, _ string) error      { return nil }
func (f *fakeBranchRepo) HardDelete(_ context.Context, id string) error     { delete(f.branches, id); return nil }

type fakeConstraintRepo struct {
	byBranch map[string][]model.Constraint
}

func newFakeConstraintRepo() *fakeConstraintRepo {
	return &fakeConstraintRepo{byBranch: make(map[string][]model.Constraint)}
}

func (f *fakeConstraintRepo) Create(_ context.Context, c *model.Constraint) error {
	f.byBranch[c.BranchID] = append(f.byBranch[c.BranchID], *c)
	return nil
}

func (f *fakeConstraintRepo) BatchCreate(_ context.Context, cs []model.Constraint) error {
	for _, c := range cs {
		f.byBranch[c.BranchID] = append(f.byBranch[c.BranchID], c)
	}
	return nil
}

func (f *fakeConstraintRepo) GetByID(_ context.Context, _ string) (*model.Constraint, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConstraintRepo) GetByCode(_ context.Context, branchID, code string) (*model.Constraint, error) {
	for _, c := range f.byBranch[branchID] {
		if c.Code == code {
			clone := c
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConstraintRepo) ListByBranch(_ context.Context, branchID string) ([]model.Constraint, error) {
	return f.byBranch[branchID], nil
}

func (f *fakeConstraintRepo) ListEnabled(_ context.Context, branchID string) ([]model.Constraint, error) {
	return f.byBranch[branchID], nil
}

func (f *fakeConstraintRepo) CountByBranch(_ context.Context, branchID string) (int64, error) {
	return int64(len(f.byBranch[branchID])), nil
}

func (f *fakeConstraintRepo) Update(_ context.Context, _ *model.Constraint) error     { return nil }
func (f *fakeConstraintRepo) Delete(_ context.Context, _ string) error                { return nil }
func (f *fakeConstraintRepo) DeleteByBranch(_ context.Context, branchID string) error { delete(f.byBranch, branchID); return nil }
func (f *fakeConstraintRepo) SetEnabled(_ context.Context, _ string, _ bool) error    { return nil }
func (f *fakeConstraintRepo) SetWeight(_ context.Context, _ string, _ int) error      { return nil }
func (f *fakeConstraintRepo) SetPriority(_ context.Context, _ string, _ int) error    { return nil }
func (f *fakeConstraintRepo) Reorder(_ context.Context, _ string, _ []string) error   { return nil }

func setupSeeder() (*Seeder, *fakeBranchRepo, *fakeConstraintRepo) {
	branchRepo := newFakeBranchRepo()
	constraintRepo := newFakeConstraintRepo()
	repo := &repository.Repository{
		Branch:     branchRepo,
		Constraint: constraintRepo,
	}
	cfg := &config.SeedConfig{BranchName: "本店", BranchCode: "MAIN", Timezone: "Asia/Tokyo"}
	return NewSeeder(repo, cfg, zap.NewNop()), branchRepo, constraintRepo
}

// ── テスト ──

func TestEnsureDefaultBranch_CreatesWhenMissing(t *testing.T) {
	seeder, branchRepo, _ := setupSeeder()
	ctx := context.Background()

	branch, err := seeder.EnsureDefaultBranch(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultBranch に失敗: %v", err)
	}
	if branch.Code != "MAIN" || branch.Name != "本店" {
		t.Errorf("作成内容が設定と違う: %+v", branch)
	}
	if len(branch.DayShifts()) != 9 || len(branch.NightShifts()) != 3 {
		t.Errorf("settings のシフトコードが入っていない: %+v", branch.Settings)
	}
	if len(branchRepo.branches) != 1 {
		t.Errorf("店舗は 1 件のはず、got %d", len(branchRepo.branches))
	}
}

func TestEnsureDefaultBranch_ReturnsExisting(t *testing.T) {
	seeder, branchRepo, _ := setupSeeder()
	ctx := context.Background()

	existing := &model.Branch{Name: "既存本店", Code: "MAIN", Timezone: "Asia/Tokyo"}
	if err := branchRepo.Create(ctx, existing); err != nil {
		t.Fatalf("前提データの作成に失敗: %v", err)
	}

	branch, err := seeder.EnsureDefaultBranch(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultBranch に失敗: %v", err)
	}
	if branch.ID != existing.ID {
		t.Errorf("既存店舗を返すはず: expected %s, got %s", existing.ID, branch.ID)
	}
	if branch.Name != "既存本店" {
		t.Errorf("既存の内容を上書きしないはず: %s", branch.Name)
	}
	if len(branchRepo.branches) != 1 {
		t.Errorf("店舗が増殖: %d 件", len(branchRepo.branches))
	}
}

func TestInitBranchConstraints_SeedsEmptyBranch(t *testing.T) {
	seeder, _, constraintRepo := setupSeeder()
	ctx := context.Background()

	n, err := seeder.InitBranchConstraints(ctx, "branch-1")
	if err != nil {
		t.Fatalf("InitBranchConstraints に失敗: %v", err)
	}
	if n != 17 {
		t.Errorf("投入件数は 17 のはず、got %d", n)
	}
	if len(constraintRepo.byBranch["branch-1"]) != 17 {
		t.Errorf("保存件数は 17 のはず、got %d", len(constraintRepo.byBranch["branch-1"]))
	}
}

func TestInitBranchConstraints_SkipsNonEmptyBranch(t *testing.T) {
	seeder, _, constraintRepo := setupSeeder()
	ctx := context.Background()

	// 管理者が 1 件だけ残した状態を再現する
	if err := constraintRepo.Create(ctx, &model.Constraint{
		BranchID: "branch-1", Name: "custom", Code: "CUSTOM",
		Category: model.CategoryCoverage, ConstraintType: model.ConstraintSoft,
	}); err != nil {
		t.Fatalf("前提データの作成に失敗: %v", err)
	}

	n, err := seeder.InitBranchConstraints(ctx, "branch-1")
	if err != nil {
		t.Fatalf("InitBranchConstraints に失敗: %v", err)
	}
	if n != 0 {
		t.Errorf("既存ありの店舗には投入しないはず、got %d", n)
	}
	if len(constraintRepo.byBranch["branch-1"]) != 1 {
		t.Errorf("既存 1 件のままのはず、got %d", len(constraintRepo.byBranch["branch-1"]))
	}
}

func TestRun_SeedsBranchAndConstraints(t *testing.T) {
	seeder, _, constraintRepo := setupSeeder()
	ctx := context.Background()

	branch, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("Run に失敗: %v", err)
	}
	if branch.Code != "MAIN" {
		t.Errorf("デフォルト店舗が返るはず: %+v", branch)
	}
	if len(constraintRepo.byBranch[branch.ID]) != 17 {
		t.Errorf("デフォルト制約 17 件が入るはず、got %d", len(constraintRepo.byBranch[branch.ID]))
	}

	// 2 回目は何も増えない
	if _, err := seeder.Run(ctx); err != nil {
		t.Fatalf("2 回目の Run に失敗: %v", err)
	}
	if len(constraintRepo.byBranch[branch.ID]) != 17 {
		t.Errorf("再実行で制約が増殖: %d 件", len(constraintRepo.byBranch[branch.ID]))
	}
}
