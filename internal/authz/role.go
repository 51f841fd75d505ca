// Package authz は店舗単位のロールに基づく認可判定を提供する。
// 行レベルセキュリティのポリシー本体は DB 側で定義しない設計のため、
// このパッケージがアプリケーション側の判定点になる。
package authz

import "fmt"

// Role user_branches.role に対応する店舗ロール
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleSuper  Role = "super"
)

// rank ロールの強さ。大きいほど強い。未知は 0
func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleSuper:
		return 3
	}
	return 0
}

// Valid 既知のロールか
func (r Role) Valid() bool { return r.rank() > 0 }

// AtLeast 指定ロール以上の強さを持つか。未知のロールは常に false
func (r Role) AtLeast(min Role) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

// ParseRole 文字列をロールへ変換する。列挙外はエラー
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("未知のロールです: %q", s)
	}
	return r, nil
}
