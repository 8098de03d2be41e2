package usecase

import (
	"context"

	"zaitan_backend/internal/feature/subscription/domain/entity"
)

// SubscriptionRepository はユーザーごとの購読と支払い履歴を永続化します。
type SubscriptionRepository interface {
	// FindByUserID は購読がない場合ErrSubscriptionNotFoundを返します。
	FindByUserID(ctx context.Context, userID string) (*entity.Subscription, error)
	FindByExternalID(ctx context.Context, externalID string) (*entity.Subscription, error)
	// Upsert はuser_idをキーに購読を作成または更新します。
	Upsert(ctx context.Context, s *entity.Subscription) error
	UpdateStatus(ctx context.Context, userID string, status entity.Status) error
	SetCancelAtPeriodEnd(ctx context.Context, userID string, cancel bool) error
	// CreatePayment は同じ外部IDの支払いが既にある場合ErrDuplicatePaymentを返します。
	CreatePayment(ctx context.Context, p *entity.Payment) error
}

// CheckoutParams は決済ページの作成に必要な値です。
type CheckoutParams struct {
	UserID        string
	PriceID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// PaymentGateway は外部の決済サービスを表します。
type PaymentGateway interface {
	// CreateCheckoutSession は決済ページのURLを返します。
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	GetSubscription(ctx context.Context, id string) (*entity.GatewaySubscription, error)
	CancelAtPeriodEnd(ctx context.Context, id string) error
	// ParseWebhook は署名を検証してからイベントを解釈します。
	// 署名が不正な場合ErrInvalidSignatureを返します。
	ParseWebhook(payload []byte, signature string) (*entity.WebhookEvent, error)
}
