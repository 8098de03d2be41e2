package usecase

import (
	"context"
	"time"

	"zaitan_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// 同じ電話番号またはopenidのユーザーが既に存在する場合、ErrUserAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID はIDでユーザーを取得します。存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByPhone は電話番号でユーザーを取得します。存在しない場合、ErrUserNotFoundを返します。
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)

	// FindByWeChatOpenID はWeChat openidでユーザーを取得します。存在しない場合、ErrUserNotFoundを返します。
	FindByWeChatOpenID(ctx context.Context, openID string) (*entity.User, error)
}

// CodeStore は認証コードのハッシュを有効期限付きで保持します。
// 実装はRedis（TTL）またはDB（読み取り時に期限切れを削除）です。
type CodeStore interface {
	// Save は電話番号のコードハッシュを保存します。既存のコードは上書きされます。
	Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error

	// Find は有効なコードハッシュを返します。存在しないか期限切れの場合、ErrCodeNotFoundを返します。
	Find(ctx context.Context, phone string) (string, error)

	// Delete はコードを削除します。存在しない場合もエラーにはなりません。
	Delete(ctx context.Context, phone string) error
}

// SMSSender は認証コードをSMSで送信します。
type SMSSender interface {
	Send(ctx context.Context, phone, code string) error
}

// WeChatClient はWeChat OAuthの認可コードをユーザー情報に交換します。
type WeChatClient interface {
	Exchange(ctx context.Context, code string) (*entity.WeChatProfile, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID, phone string) (string, error)
}
