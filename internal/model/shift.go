package model

import "strconv"

// 休みを表すシフトコード
const (
	ShiftOff       = "-" // 希望休・明け休みを含む休み
	ShiftPublicOff = "公" // 公休
	ShiftSunday    = "日" // 日曜勤務（休みではない）
)

// IsOffCode 休日として数えるコードか
func IsOffCode(code string) bool {
	return code == ShiftOff || code == ShiftPublicOff
}

// MonthlyShift 月次シフト表の 1 行（スタッフ 1 人 × 1 か月） — monthly_shifts テーブル
// staff_name は保存時点の名前のスナップショットで、staff への FK ではない
type MonthlyShift struct {
	ID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                                    json:"id"`
	BranchID  string  `gorm:"type:uuid;uniqueIndex:uk_monthly_shifts_grid_row;index:idx_monthly_shifts_branch" json:"branch_id"`
	Year      int     `gorm:"not null;uniqueIndex:uk_monthly_shifts_grid_row"                                   json:"year"`
	Month     int     `gorm:"not null;uniqueIndex:uk_monthly_shifts_grid_row"                                   json:"month"`
	StaffName string  `gorm:"type:text;not null;uniqueIndex:uk_monthly_shifts_grid_row"                         json:"staff_name"`
	ShiftData JSONMap `gorm:"type:jsonb;not null;default:'{}'"                                                  json:"shift_data"` // {"1": "E1", "2": "-", ...}
	OffDays   int     `gorm:"not null;default:0"                                                                json:"off_days"`
	WorkDays  int     `gorm:"not null;default:0"                                                                json:"work_days"`
	CreatedBy string  `gorm:"type:text;not null;default:''"                                                     json:"created_by"`
	Timestamps
}

// TableName テーブル名を指定する
func (MonthlyShift) TableName() string { return "monthly_shifts" }

// ShiftOn 指定日のシフトコード。未設定なら空文字
func (m *MonthlyShift) ShiftOn(day int) string {
	if code, ok := m.ShiftData[strconv.Itoa(day)].(string); ok {
		return code
	}
	return ""
}

// MonthlyShiftSummary 月次サマリ — monthly_shifts_summary テーブル
// summary_data の中身は保存側が自由に持つ集計ドキュメント
type MonthlyShiftSummary struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                                              json:"id"`
	BranchID    string  `gorm:"type:uuid;uniqueIndex:uk_monthly_shifts_summary_month;index:idx_monthly_shifts_summary_branch" json:"branch_id"`
	Year        int     `gorm:"not null;uniqueIndex:uk_monthly_shifts_summary_month"                                        json:"year"`
	Month       int     `gorm:"not null;uniqueIndex:uk_monthly_shifts_summary_month"                                        json:"month"`
	SummaryData JSONMap `gorm:"type:jsonb;not null;default:'{}'"                                                            json:"summary_data"`
	CreatedBy   string  `gorm:"type:text;not null;default:''"                                                               json:"created_by"`
	Timestamps
}

// TableName テーブル名を指定する
func (MonthlyShiftSummary) TableName() string { return "monthly_shifts_summary" }
