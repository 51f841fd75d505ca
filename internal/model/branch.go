package model

// Branch 店舗 — branches テーブル
// settings には day_shifts / night_shifts / is_default などを保持する
type Branch struct {
	ID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"id"`
	Name     string  `gorm:"type:text;not null"                              json:"name"`
	Code     string  `gorm:"type:text;not null;uniqueIndex:uk_branches_code" json:"code"`
	Timezone string  `gorm:"type:text;not null;default:'Asia/Tokyo'"         json:"timezone"`
	IsActive bool    `gorm:"not null;default:true"                           json:"is_active"`
	Settings JSONMap `gorm:"type:jsonb;not null;default:'{}'"                json:"settings"`
	Timestamps
}

// TableName テーブル名を指定する
func (Branch) TableName() string { return "branches" }

// DayShifts settings の日勤シフトコード一覧
func (b *Branch) DayShifts() []string { return b.settingsStrings("day_shifts") }

// NightShifts settings の夜勤シフトコード一覧
func (b *Branch) NightShifts() []string { return b.settingsStrings("night_shifts") }

// settingsStrings DB から読んだ直後は []any、保存前に組み立てた直後は
// []string になりうるため両方を受ける
func (b *Branch) settingsStrings(key string) []string {
	switch raw := b.Settings[key].(type) {
	case []string:
		return raw
	case []any:
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// UserBranch ユーザーと店舗の紐付け — user_branches テーブル
// user_id は外部 ID 基盤のユーザー識別子（このスキーマに users テーブルは無い）
type UserBranch struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                                            json:"id"`
	UserID    string `gorm:"type:text;not null;uniqueIndex:uk_user_branches_user_branch"                               json:"user_id"`
	BranchID  string `gorm:"type:uuid;not null;uniqueIndex:uk_user_branches_user_branch;index:idx_user_branches_branch" json:"branch_id"`
	Role      string `gorm:"type:text;not null;default:'viewer'"                                                       json:"role"` // super | editor | viewer
	IsPrimary bool   `gorm:"not null;default:false"                                                                    json:"is_primary"`
	Timestamps

	// 関連
	Branch *Branch `gorm:"foreignKey:BranchID;references:ID;constraint:OnDelete:CASCADE" json:"branch,omitempty"`
}

// TableName テーブル名を指定する
func (UserBranch) TableName() string { return "user_branches" }
