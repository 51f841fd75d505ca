package authz

import (
	"errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("トークンの有効期限が切れています")
	ErrTokenInvalid = errors.New("トークンが不正です")
)

// IdentityFromToken 外部 ID 基盤が発行した HS256 JWT から識別子を取り出す
// トークンの発行・更新はこのシステムの責務外で、検証と subject の抽出だけを行う
func IdentityFromToken(tokenString string, secret []byte) (Identity, error) {
	token, err := jwtv5.Parse(tokenString, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{UserID: sub}, nil
}
