package errors

import (
	"errors"

	"gorm.io/gorm"
)

// データベース制約違反の分類ヘルパー。
// gorm.Config{TranslateError: true} で開いた接続を前提とする。

// IsNotFound レコードが存在しない
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate 一意制約違反（自然キーの重複挿入）
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsFKViolation 外部キー制約違反（参照先が存在しない等）
func IsFKViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// IsCheckViolation CHECK 制約違反（role / category 等の列挙外の値）
func IsCheckViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated)
}
