package dto

// ── 店舗 DTO ──

// CreateBranchRequest 店舗作成リクエスト
type CreateBranchRequest struct {
	Name     string         `json:"name"`
	Code     string         `json:"code"`
	Timezone string         `json:"timezone,omitempty"` // 省略時 Asia/Tokyo
	Settings map[string]any `json:"settings,omitempty"`
}

// UpdateBranchRequest 店舗更新リクエスト。nil のフィールドは変更しない
type UpdateBranchRequest struct {
	Name     *string         `json:"name,omitempty"`
	Timezone *string         `json:"timezone,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
	Settings *map[string]any `json:"settings,omitempty"`
}

// ShiftCodeSettings 店舗 settings のうち勤務シフトコードの部分
type ShiftCodeSettings struct {
	DayShifts   []string `json:"day_shifts"`
	NightShifts []string `json:"night_shifts"`
}

// GrantRequest ユーザーへの店舗権限付与リクエスト
type GrantRequest struct {
	UserID    string `json:"user_id"`
	BranchID  string `json:"branch_id"`
	Role      string `json:"role"` // super | editor | viewer
	IsPrimary bool   `json:"is_primary,omitempty"`
}
