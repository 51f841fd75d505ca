package model

import "time"

// 交換申請ステータスの既知の値（列は自由文字列のまま、将来の拡張を妨げない）
const (
	SwapStatusPending  = "pending"
	SwapStatusApproved = "approved"
	SwapStatusRejected = "rejected"
)

// SwapRequest シフト交換申請 — swap_requests テーブル
// requester / target はスタッフ名のスナップショット（staff への FK ではない）
type SwapRequest struct {
	ID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BranchID       string     `gorm:"type:uuid;index:idx_swap_requests_branch"       json:"branch_id"`
	Requester      string     `gorm:"type:text;not null"                             json:"requester"`
	Target         string     `gorm:"type:text;not null"                             json:"target"`
	SwapDate       time.Time  `gorm:"type:date;not null;index:idx_swap_requests_date" json:"swap_date"`
	RequesterShift string     `gorm:"type:text;not null;default:''"                  json:"requester_shift"`
	TargetShift    string     `gorm:"type:text;not null;default:''"                  json:"target_shift"`
	Reason         string     `gorm:"type:text;not null;default:''"                  json:"reason"`
	Status         string     `gorm:"type:text;not null;default:'pending';index:idx_swap_requests_status" json:"status"`
	ApprovedBy     *string    `gorm:"type:text"                                      json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	Timestamps
}

// TableName テーブル名を指定する
func (SwapRequest) TableName() string { return "swap_requests" }
