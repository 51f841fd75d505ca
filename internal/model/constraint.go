package model

// 制約種別（CHECK 制約で固定）
const (
	ConstraintHard = "hard"
	ConstraintSoft = "soft"
)

// 制約カテゴリ（CHECK 制約で固定）
const (
	CategoryCoverage   = "coverage"
	CategorySequence   = "sequence"
	CategoryBalance    = "balance"
	CategoryPreference = "preference"
	CategorySkill      = "skill"
)

// Constraint 勤務表制約 — constraints テーブル
// rule_definition はソルバーが解釈するドキュメント。スキーマ層は形のみ保証し、
// 中身の検証はしない（internal/rules が型付きの読み書きを提供する）
type Constraint struct {
	ID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                                             json:"id"`
	BranchID       string  `gorm:"type:uuid;not null;uniqueIndex:uk_constraints_branch_code;index:idx_constraints_branch_priority" json:"branch_id"`
	Name           string  `gorm:"type:text;not null"                                                                         json:"name"`
	Code           string  `gorm:"type:text;not null;uniqueIndex:uk_constraints_branch_code"                                  json:"code"`
	Category       string  `gorm:"type:text;not null"                                                                         json:"category"` // coverage | sequence | balance | preference | skill
	ConstraintType string  `gorm:"type:text;not null;default:'soft'"                                                          json:"constraint_type"` // hard | soft
	IsEnabled      bool    `gorm:"not null;default:true"                                                                      json:"is_enabled"`
	PenaltyWeight  int     `gorm:"not null;default:10000"                                                                     json:"penalty_weight"`
	PriorityOrder  int     `gorm:"not null;default:50;index:idx_constraints_branch_priority"                                  json:"priority_order"`
	RuleDefinition JSONRaw `gorm:"type:jsonb;not null;default:'{}'"                                                           json:"rule_definition"`
	Timestamps

	// 関連
	Branch *Branch `gorm:"foreignKey:BranchID;references:ID;constraint:OnDelete:CASCADE" json:"branch,omitempty"`
}

// TableName テーブル名を指定する
func (Constraint) TableName() string { return "constraints" }

// IsHard ハード制約か
func (c *Constraint) IsHard() bool { return c.ConstraintType == ConstraintHard }
