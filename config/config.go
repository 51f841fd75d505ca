package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config アプリ全体の設定構造体
type Config struct {
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// DatabaseConfig PostgreSQL 接続設定
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 接続の最大生存時間（分）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // アイドル接続の最大生存時間（分）
}

// DSN PostgreSQL 接続文字列を生成する
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis キャッシュ設定
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"` // 制約カタログキャッシュの TTL
}

// AuthConfig 外部 IdP が発行するトークンの検証設定
// トークンの発行はこのリポジトリの責務外（検証・subject 抽出のみ）
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LogConfig ログ設定
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SeedConfig デフォルト店舗の初期値
type SeedConfig struct {
	BranchName string `mapstructure:"branch_name"`
	BranchCode string `mapstructure:"branch_code"`
	Timezone   string `mapstructure:"timezone"`
}

// Load 設定ファイルと環境変数から設定を読み込む
// 優先順位：環境変数 > 設定ファイル > デフォルト値
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── デフォルト値 ──
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "shiftmaster")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Tokyo")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.catalog_ttl", "5m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("seed.branch_name", "本店")
	v.SetDefault("seed.branch_code", "MAIN")
	v.SetDefault("seed.timezone", "Asia/Tokyo")

	// ── 設定ファイル ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 環境変数 ──
	v.SetEnvPrefix("SHIFTDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		// 設定ファイルが無い場合はデフォルト値と環境変数のみで動作する
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の解析に失敗: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 必須設定項目を検証する
func (c *Config) Validate() error {
	if c.Database.Name == "" {
		return fmt.Errorf("設定検証エラー: db.name は必須です")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("設定検証エラー: db.port は 1-65535 の範囲で指定してください")
	}
	// jwt_secret はトークン検証を使う場合のみ必須（migrate/seed は不要）
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("設定検証エラー: auth.jwt_secret は 16 文字以上にしてください")
	}
	return nil
}
