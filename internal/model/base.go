package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ── PostgreSQL jsonb 対応型 ──

// JSONMap jsonb 列に対応する map 型。GORM の Scanner/Valuer を実装する
type JSONMap map[string]any

// Scan jsonb のバイト列を map へデコードする
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(raw, m)
}

// Value map を jsonb 用の JSON テキストへ変換する。nil は '{}' になる
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// JSONRaw jsonb 列を未解釈のまま保持する型
// rule_definition のように中身の解釈を別レイヤへ委ねる列で使う
type JSONRaw []byte

// Scan jsonb のバイト列をそのまま複製して保持する
func (j *JSONRaw) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*j = append(JSONRaw(nil), v...)
	case string:
		*j = JSONRaw(v)
	default:
		return fmt.Errorf("JSONRaw.Scan: unsupported type %T", src)
	}
	return nil
}

// Value 保持しているバイト列をそのまま返す。空は '{}' になる
func (j JSONRaw) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return string(j), nil
}

// JSON 保持している JSON の複製を返す。空は '{}' になる
func (j JSONRaw) JSON() json.RawMessage {
	if len(j) == 0 {
		return json.RawMessage("{}")
	}
	return append(json.RawMessage(nil), j...)
}

// MarshalJSON 保持している JSON をそのまま出力する
func (j JSONRaw) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON 入力 JSON をそのまま複製して保持する
func (j *JSONRaw) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSONRaw.UnmarshalJSON: nil receiver")
	}
	*j = append((*j)[:0], data...)
	return nil
}

// Timestamps 全テーブル共通の時刻列
// updated_at は DB トリガが UPDATE のたびに現在時刻で上書きする
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── カンマ区切りタグ列のヘルパー ──

// SplitTags "L1,NIGHT" 形式のタグ列を分解する。空要素は捨てる
func SplitTags(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags タグ一覧をカンマ区切りへ戻す
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
