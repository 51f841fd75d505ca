package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taehong0711/shiftmaster/config"
)

// Client Redis クライアントのラッパー
// 現在は制約カタログの読み取りキャッシュに使用する
type Client struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient Redis 接続を作成し Ping で疎通確認する
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 接続に失敗: %w", err)
	}

	ttl := cfg.CatalogTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	logger.Info("Redis 接続成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// ── JSON キャッシュ ──

// GetJSON キーの値を dest へデコードする。ミス時は (false, nil)
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("キャッシュ値のデコードに失敗 %q: %w", key, err)
	}
	return true, nil
}

// SetJSON 値を JSON で保存する。TTL は設定値（デフォルト 5 分）
func (c *Client) SetJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("キャッシュ値のエンコードに失敗 %q: %w", key, err)
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// Delete キーを削除する（無効化）
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close Redis 接続を閉じる
func (c *Client) Close() error {
	return c.rdb.Close()
}
