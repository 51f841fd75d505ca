package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("マイグレーションファイルの読み込みに失敗: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("マイグレーションドライバの作成に失敗: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("マイグレーションインスタンスの初期化に失敗: %w", err)
	}
	return m, nil
}

// RunMigrations 未適用のマイグレーションをすべて適用する
// 各 up ファイル自体も冪等（IF NOT EXISTS / 存在チェック付きシード）
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("マイグレーションが dirty 状態です", zap.Uint("version", version))
	} else {
		logger.Info("マイグレーション完了", zap.Uint("version", version))
	}

	return nil
}

// RollbackMigrations 指定ステップ数だけマイグレーションを巻き戻す
func RollbackMigrations(db *sql.DB, steps int, logger *zap.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("巻き戻しステップ数は 1 以上を指定してください: %d", steps)
	}

	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("マイグレーションの巻き戻しに失敗: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("マイグレーションを巻き戻しました", zap.Int("steps", steps), zap.Uint("version", version))
	return nil
}
