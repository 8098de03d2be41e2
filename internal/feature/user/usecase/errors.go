// Package usecase はuserフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	ErrInvalidName   = errors.New("name must be 1 to 50 characters")
	ErrInvalidAvatar = errors.New("avatar must be an absolute http(s) url")
)
