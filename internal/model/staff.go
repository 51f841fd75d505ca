package model

import "time"

// スタッフのスキルタグ
const (
	SkillNight = "NIGHT" // 夜勤可
	SkillL1    = "L1"    // L1 ポスト可
)

// スタッフの役割
const (
	StaffRoleStaff   = "staff"
	StaffRoleManager = "manager"
)

// Staff スタッフ — staff テーブル
// skills / prefer はカンマ区切りテキスト（例 "L1,NIGHT"）
type Staff struct {
	ID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BranchID     string `gorm:"type:uuid;index:idx_staff_branch"               json:"branch_id"`
	Name         string `gorm:"type:text;not null"                             json:"name"`
	Gender       string `gorm:"type:text;not null;default:'M'"                 json:"gender"`
	Role         string `gorm:"type:text;not null;default:'staff'"             json:"role"`
	TargetOff    int    `gorm:"not null;default:8"                             json:"target_off"`
	Nenkyu       int    `gorm:"not null;default:0"                             json:"nenkyu"`
	Skills       string `gorm:"type:text;not null;default:''"                  json:"skills"`
	Prefer       string `gorm:"type:text;not null;default:''"                  json:"prefer"`
	DisplayOrder int    `gorm:"not null;default:0"                             json:"display_order"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	Timestamps
}

// TableName テーブル名を指定する
func (Staff) TableName() string { return "staff" }

// SkillList skills をタグ一覧へ分解する
func (s *Staff) SkillList() []string { return SplitTags(s.Skills) }

// PreferList prefer をタグ一覧へ分解する
func (s *Staff) PreferList() []string { return SplitTags(s.Prefer) }

// HasSkill 指定スキルを持つか
func (s *Staff) HasSkill(tag string) bool {
	for _, t := range s.SkillList() {
		if t == tag {
			return true
		}
	}
	return false
}

// NightCapable 夜勤可か
func (s *Staff) NightCapable() bool { return s.HasSkill(SkillNight) }

// L1Capable L1 ポスト可か
func (s *Staff) L1Capable() bool { return s.HasSkill(SkillL1) }

// 監査アクション
const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionDeactivate = "deactivate"
)

// StaffAudit スタッフ変更監査 — staff_audit テーブル
// 追記専用。updated_at を持たず、行は一切更新しない
// staff_id に FK は無い（スタッフ削除後も監査行を保持する）
type StaffAudit struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"id"`
	BranchID    string    `gorm:"type:uuid;index:idx_staff_audit_branch"             json:"branch_id"`
	StaffID     string    `gorm:"type:uuid;not null;index:idx_staff_audit_staff"     json:"staff_id"`
	Action      string    `gorm:"type:text;not null"                                 json:"action"`
	BeforeData  JSONMap   `gorm:"type:jsonb"                                         json:"before_data,omitempty"`
	AfterData   JSONMap   `gorm:"type:jsonb"                                         json:"after_data,omitempty"`
	PerformedBy string    `gorm:"type:text;not null;default:''"                      json:"performed_by"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                 json:"created_at"`
}

// TableName テーブル名を指定する
func (StaffAudit) TableName() string { return "staff_audit" }
