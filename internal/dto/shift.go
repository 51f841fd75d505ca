package dto

// ── 月次シフト DTO ──

// MonthRow 月次グリッドの 1 行（スタッフ 1 人分）
// ShiftData は日番号（"1".."31"）→ シフトコード
type MonthRow struct {
	StaffName string            `json:"staff_name"`
	ShiftData map[string]string `json:"shift_data"`
}

// SaveMonthRequest 月次シフト表の保存リクエスト
// 休日数・勤務日数はサービス側で導出するため持たない
type SaveMonthRequest struct {
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	CreatedBy string     `json:"created_by,omitempty"`
	Rows      []MonthRow `json:"rows"`
}

// CreateSwapRequest シフト交換申請の作成リクエスト
type CreateSwapRequest struct {
	Requester      string `json:"requester"`
	Target         string `json:"target"`
	SwapDate       string `json:"swap_date"` // YYYY-MM-DD
	RequesterShift string `json:"requester_shift,omitempty"`
	TargetShift    string `json:"target_shift,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// CreateNotificationRequest アプリ内通知の作成リクエスト
type CreateNotificationRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"` // 省略時 info
}
