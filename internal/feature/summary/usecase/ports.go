// Package usecase はsummaryフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
)

var (
	// ErrLLMUnavailable は言語モデルが設定されていない場合に返されます。
	ErrLLMUnavailable = errors.New("ai service not configured")
	// ErrAskFailed は質問応答の生成に失敗した場合に返されます。
	ErrAskFailed = errors.New("failed to generate answer")
)

// Prompt は言語モデルへの1回分の入力です。
type Prompt struct {
	System    string
	User      string
	MaxTokens int32
}

// Generator はテキスト生成を行う言語モデルのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
