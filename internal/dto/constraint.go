package dto

import "encoding/json"

// ── 制約 DTO ──

// CreateConstraintRequest 制約作成リクエスト
type CreateConstraintRequest struct {
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Category       string          `json:"category"`
	ConstraintType string          `json:"constraint_type,omitempty"` // 省略時 soft
	PenaltyWeight  *int            `json:"penalty_weight,omitempty"`
	PriorityOrder  *int            `json:"priority_order,omitempty"`
	RuleDefinition json.RawMessage `json:"rule_definition,omitempty"`
}

// UpdateConstraintRequest 制約更新リクエスト。nil のフィールドは変更しない
type UpdateConstraintRequest struct {
	Name           *string         `json:"name,omitempty"`
	Category       *string         `json:"category,omitempty"`
	ConstraintType *string         `json:"constraint_type,omitempty"`
	IsEnabled      *bool           `json:"is_enabled,omitempty"`
	PenaltyWeight  *int            `json:"penalty_weight,omitempty"`
	PriorityOrder  *int            `json:"priority_order,omitempty"`
	RuleDefinition json.RawMessage `json:"rule_definition,omitempty"`
}

// ConstraintPayload エクスポート文書内の 1 制約
// 店舗 ID と行 ID を持たない可搬形式
type ConstraintPayload struct {
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Category       string          `json:"category"`
	ConstraintType string          `json:"constraint_type"`
	IsEnabled      bool            `json:"is_enabled"`
	PenaltyWeight  int             `json:"penalty_weight"`
	PriorityOrder  int             `json:"priority_order"`
	RuleDefinition json.RawMessage `json:"rule_definition"`
}

// ConstraintExport 制約カタログのエクスポート文書
type ConstraintExport struct {
	Version     int                 `json:"version"`
	BranchCode  string              `json:"branch_code,omitempty"`
	ExportedAt  string              `json:"exported_at"`
	Constraints []ConstraintPayload `json:"constraints"`
}

// ConstraintSummary 制約カタログの集計
type ConstraintSummary struct {
	Total      int            `json:"total"`
	Enabled    int            `json:"enabled"`
	Disabled   int            `json:"disabled"`
	Hard       int            `json:"hard"`
	Soft       int            `json:"soft"`
	ByCategory map[string]int `json:"by_category"`
}
