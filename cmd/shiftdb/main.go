package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/config"
	"github.com/taehong0711/shiftmaster/internal/dto"
	"github.com/taehong0711/shiftmaster/internal/repository"
	"github.com/taehong0711/shiftmaster/internal/service"
	"github.com/taehong0711/shiftmaster/pkg/database"
	applogger "github.com/taehong0711/shiftmaster/pkg/logger"
	"github.com/taehong0711/shiftmaster/pkg/redis"
)

var flagConfig string

func main() {
	root := &cobra.Command{
		Use:           "shiftdb",
		Short:         "多店舗シフトスケジュール DB の管理 CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "設定ファイルのパス（省略時は環境変数とデフォルト値）")

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newGrantCmd(),
		newConstraintsCmd(),
		newExportCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "エラー:", err)
		os.Exit(1)
	}
}

// ── 共有依存の組み立て ──

// app コマンド実行に必要な共有依存
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	repo   *repository.Repository
	svc    *service.Service
	cache  *redis.Client
}

// newApp 設定 → ロガー → DB →（任意で Redis）→ Repository / Service の順で初期化する
// withCache は制約カタログを読み書きするコマンドだけが立てる。
// Redis につながらない場合はキャッシュ無しで続行する
func newApp(configPath string, withCache bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRepository(db)

	var cache *redis.Client
	if withCache {
		if c, err := redis.NewClient(&cfg.Redis, logger); err != nil {
			logger.Warn("Redis 接続に失敗。カタログキャッシュ無しで続行します", zap.Error(err))
		} else {
			cache = c
			repo.Constraint = repository.NewCachedConstraintRepo(repo.Constraint, cache, logger)
		}
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		repo:   repo,
		svc:    service.NewService(cfg, repo, logger),
		cache:  cache,
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	a.logger.Sync()
}

// ── migrate ──

func newMigrateCmd() *cobra.Command {
	var down int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "マイグレーションを適用する（--down N で巻き戻し）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flagConfig, false)
			if err != nil {
				return err
			}
			defer a.close()

			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			if down > 0 {
				return database.RollbackMigrations(sqlDB, down, a.logger)
			}
			return database.RunMigrations(sqlDB, a.logger)
		},
	}
	cmd.Flags().IntVar(&down, "down", 0, "巻き戻すステップ数（省略時は up）")
	return cmd
}

// ── seed ──

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "デフォルト店舗とデフォルト制約カタログを投入する",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flagConfig, true)
			if err != nil {
				return err
			}
			defer a.close()

			branch, err := a.svc.Branch.EnsureDefault(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("デフォルト店舗: %s (%s)\n", branch.Name, branch.Code)
			return nil
		},
	}
}

// ── grant ──

func newGrantCmd() *cobra.Command {
	var (
		userID     string
		branchCode string
		role       string
		primary    bool
	)
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "ユーザーへ店舗ロールを付与する",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flagConfig, false)
			if err != nil {
				return err
			}
			defer a.close()

			branch, err := a.svc.Branch.GetByCode(cmd.Context(), branchCode)
			if err != nil {
				return err
			}
			if err := a.svc.Branch.Grant(cmd.Context(), &dto.GrantRequest{
				UserID:    userID,
				BranchID:  branch.ID,
				Role:      role,
				IsPrimary: primary,
			}); err != nil {
				return err
			}
			fmt.Printf("%s へ %s (%s) の %s 権限を付与しました\n", userID, branch.Name, branch.Code, role)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ユーザー ID（必須）")
	cmd.Flags().StringVar(&branchCode, "branch", "", "店舗コード（必須）")
	cmd.Flags().StringVar(&role, "role", "viewer", "ロール（super / editor / viewer）")
	cmd.Flags().BoolVar(&primary, "primary", false, "主店舗として設定する")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("branch")
	return cmd
}

// ── constraints ──

func newConstraintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "制約カタログの書き出しと取り込み",
	}
	cmd.AddCommand(newConstraintsExportCmd(), newConstraintsImportCmd())
	return cmd
}

func newConstraintsExportCmd() *cobra.Command {
	var (
		branchCode string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "店舗の制約カタログを JSON に書き出す",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flagConfig, true)
			if err != nil {
				return err
			}
			defer a.close()

			branch, err := a.svc.Branch.GetByCode(cmd.Context(), branchCode)
			if err != nil {
				return err
			}
			doc, err := a.svc.Constraint.ExportJSON(cmd.Context(), branch.ID)
			if err != nil {
				return err
			}

			raw, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			raw = append(raw, '\n')

			if outPath == "" {
				_, err = os.Stdout.Write(raw)
				return err
			}
			if err := os.WriteFile(outPath, raw, 0o644); err != nil {
				return err
			}
			fmt.Printf("%d 件の制約を %s へ書き出しました\n", len(doc.Constraints), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&branchCode, "branch", "", "店舗コード（必須）")
	cmd.Flags().StringVar(&outPath, "out", "", "出力先ファイル（省略時は標準出力）")
	cmd.MarkFlagRequired("branch")
	return cmd
}

func newConstraintsImportCmd() *cobra.Command {
	var (
		branchCode string
		replace    bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "JSON の制約カタログを店舗へ取り込む",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig, true)
			if err != nil {
				return err
			}
			defer a.close()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var doc dto.ConstraintExport
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("取り込みファイルの解析に失敗: %w", err)
			}

			branch, err := a.svc.Branch.GetByCode(cmd.Context(), branchCode)
			if err != nil {
				return err
			}
			n, err := a.svc.Constraint.ImportJSON(cmd.Context(), branch.ID, &doc, replace)
			if err != nil {
				return err
			}
			fmt.Printf("%d 件の制約を %s (%s) へ取り込みました\n", n, branch.Name, branch.Code)
			return nil
		},
	}
	cmd.Flags().StringVar(&branchCode, "branch", "", "店舗コード（必須）")
	cmd.Flags().BoolVar(&replace, "replace", false, "既存の制約を全削除してから取り込む")
	cmd.MarkFlagRequired("branch")
	return cmd
}

// ── export ──

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "月次シフト表をファイルへ出力する",
	}
	cmd.AddCommand(newExportExcelCmd(), newExportICSCmd())
	return cmd
}

func newExportExcelCmd() *cobra.Command {
	var (
		branchCode  string
		year, month int
		outPath     string
	)
	cmd := &cobra.Command{
		Use:   "excel",
		Short: "月次シフト表を Excel (.xlsx) に出力する",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flagConfig, false)
			if err != nil {
				return err
			}
			defer a.close()

			branch, err := a.svc.Branch.GetByCode(cmd.Context(), branchCode)
			if err != nil {
				return err
			}
			buf, filename, err := a.svc.Export.MonthExcel(cmd.Context(), branch.ID, year, month)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = filename
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Printf("%s へ出力しました\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&branchCode, "branch", "", "店舗コード（必須）")
	cmd.Flags().IntVar(&year, "year", 0, "対象年（必須）")
	cmd.Flags().IntVar(&month, "month", 0, "対象月（必須）")
	cmd.Flags().StringVar(&outPath, "out", "", "出力先ファイル（省略時は推奨ファイル名）")
	cmd.MarkFlagRequired("branch")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("month")
	return cmd
}

func newExportICSCmd() *cobra.Command {
	var (
		branchCode  string
		staffName   string
		year, month int
		outPath     string
	)
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "スタッフ 1 人の月次シフトを iCalendar に出力する",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flagConfig, false)
			if err != nil {
				return err
			}
			defer a.close()

			branch, err := a.svc.Branch.GetByCode(cmd.Context(), branchCode)
			if err != nil {
				return err
			}
			buf, filename, err := a.svc.Export.StaffICS(cmd.Context(), branch.ID, staffName, year, month)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = filename
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Printf("%s へ出力しました\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&branchCode, "branch", "", "店舗コード（必須）")
	cmd.Flags().StringVar(&staffName, "staff", "", "スタッフ名（必須）")
	cmd.Flags().IntVar(&year, "year", 0, "対象年（必須）")
	cmd.Flags().IntVar(&month, "month", 0, "対象月（必須）")
	cmd.Flags().StringVar(&outPath, "out", "", "出力先ファイル（省略時は推奨ファイル名）")
	cmd.MarkFlagRequired("branch")
	cmd.MarkFlagRequired("staff")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("month")
	return cmd
}
