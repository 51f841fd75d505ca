package dto

// ── スタッフ DTO ──

// CreateStaffRequest スタッフ作成リクエスト
type CreateStaffRequest struct {
	Name         string   `json:"name"`
	Gender       string   `json:"gender,omitempty"` // 省略時 M
	Role         string   `json:"role,omitempty"`   // 省略時 staff
	TargetOff    *int     `json:"target_off,omitempty"`
	Nenkyu       int      `json:"nenkyu,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Prefer       []string `json:"prefer,omitempty"`
	DisplayOrder int      `json:"display_order,omitempty"`
}

// UpdateStaffRequest スタッフ更新リクエスト。nil のフィールドは変更しない
type UpdateStaffRequest struct {
	Name         *string   `json:"name,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	Role         *string   `json:"role,omitempty"`
	TargetOff    *int      `json:"target_off,omitempty"`
	Nenkyu       *int      `json:"nenkyu,omitempty"`
	Skills       *[]string `json:"skills,omitempty"`
	Prefer       *[]string `json:"prefer,omitempty"`
	DisplayOrder *int      `json:"display_order,omitempty"`
}

// StaffStats 店舗スタッフの集計。在籍中のみ内訳に数える
type StaffStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	Managers     int `json:"managers"`
	Staff        int `json:"staff"`
	Male         int `json:"male"`
	Female       int `json:"female"`
	NightCapable int `json:"night_capable"`
	L1Capable    int `json:"l1_capable"`
}
