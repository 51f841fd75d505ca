package model

// 通知種別の既知の値
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
	NotificationSwap    = "swap"
)

// Notification アプリ内通知 — notifications テーブル
// 配信（メール・プッシュ等）はこのスキーマの責務外。保存と既読管理のみ
type Notification struct {
	ID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"            json:"id"`
	BranchID string `gorm:"type:uuid;index:idx_notifications_branch"                  json:"branch_id"`
	UserID   string `gorm:"type:text;not null;index:idx_notifications_user_read"      json:"user_id"`
	Title    string `gorm:"type:text;not null;default:''"                             json:"title"`
	Message  string `gorm:"type:text;not null;default:''"                             json:"message"`
	Type     string `gorm:"type:text;not null;default:'info'"                         json:"type"`
	Read     bool   `gorm:"not null;default:false;index:idx_notifications_user_read"  json:"read"`
	Timestamps
}

// TableName テーブル名を指定する
func (Notification) TableName() string { return "notifications" }
