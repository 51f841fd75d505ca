package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/taehong0711/shiftmaster/internal/repository"
	pkgerrors "github.com/taehong0711/shiftmaster/pkg/errors"
)

// Action 認可対象の操作区分
type Action string

const (
	ActionRead  Action = "read"  // 閲覧（viewer 以上）
	ActionWrite Action = "write" // 行の作成・更新（editor 以上）
	ActionAdmin Action = "admin" // 店舗設定・権限付与・物理削除（super のみ）
)

// ErrDenied 認可拒否
var ErrDenied = errors.New("この店舗に対する権限がありません")

// Identity 外部 ID 基盤が発行したユーザーの識別子
type Identity struct {
	UserID string
}

// Policy 店舗メンバーシップに基づく認可判定
// ロールは user_branches から都度読む。メンバーでなければ常に拒否
type Policy struct {
	userBranches repository.UserBranchRepository
}

// NewPolicy Policy を作成する
func NewPolicy(userBranches repository.UserBranchRepository) *Policy {
	return &Policy{userBranches: userBranches}
}

// required 操作区分ごとの最低ロール
func required(action Action) (Role, error) {
	switch action {
	case ActionRead:
		return RoleViewer, nil
	case ActionWrite:
		return RoleEditor, nil
	case ActionAdmin:
		return RoleSuper, nil
	}
	return "", fmt.Errorf("未知の操作区分です: %q", action)
}

// Can identity が branch に対して action を行えるか判定する
// 許可なら nil、拒否なら ErrDenied を返す
func (p *Policy) Can(ctx context.Context, identity Identity, branchID string, action Action) error {
	min, err := required(action)
	if err != nil {
		return err
	}

	raw, err := p.userBranches.GetRole(ctx, identity.UserID, branchID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrDenied
		}
		return fmt.Errorf("ロールの取得に失敗: %w", err)
	}

	role, err := ParseRole(raw)
	if err != nil {
		// 列挙外のロールが保存されていた場合も拒否に倒す
		return ErrDenied
	}
	if !role.AtLeast(min) {
		return ErrDenied
	}
	return nil
}

// RoleFor identity の branch におけるロールを返す。非メンバーは ErrDenied
func (p *Policy) RoleFor(ctx context.Context, identity Identity, branchID string) (Role, error) {
	raw, err := p.userBranches.GetRole(ctx, identity.UserID, branchID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return "", ErrDenied
		}
		return "", fmt.Errorf("ロールの取得に失敗: %w", err)
	}
	role, err := ParseRole(raw)
	if err != nil {
		return "", ErrDenied
	}
	return role, nil
}
