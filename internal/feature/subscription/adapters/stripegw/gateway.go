// Package stripegw はStripeを決済サービスとして使うPaymentGatewayの実装を提供します。
package stripegw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"zaitan_backend/internal/feature/subscription/domain/entity"
	"zaitan_backend/internal/feature/subscription/usecase"
)

const metadataUserID = "userId"

// Config はStripeクライアントの設定です。
type Config struct {
	SecretKey     string
	WebhookSecret string
	// BaseURL はAPIのエンドポイントを差し替える場合に指定します（テスト用）。
	BaseURL string
}

// Gateway はStripe APIを呼び出します。
type Gateway struct {
	api           *client.API
	webhookSecret string
}

var _ usecase.PaymentGateway = (*Gateway)(nil)

// NewGateway はGatewayの新しいインスタンスを生成します。
// httpClientのタイムアウトが各リクエストの上限になります。リトライは行いません。
func NewGateway(cfg Config, httpClient *http.Client) *Gateway {
	bc := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.BaseURL != "" {
		bc.URL = stripe.String(cfg.BaseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, bc)

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Gateway{api: api, webhookSecret: cfg.WebhookSecret}
}

// CreateCheckoutSession はサブスクリプションモードの決済ページを作成します。
// ユーザーIDはセッションと作成される購読の両方のメタデータに入ります。
func (g *Gateway) CreateCheckoutSession(ctx context.Context, p usecase.CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{metadataUserID: p.UserID},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, p.UserID)
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}
	return sess.URL, nil
}

// GetSubscription は購読の価格と請求期間を取得します。
func (g *Gateway) GetSubscription(ctx context.Context, id string) (*entity.GatewaySubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get subscription: %w", err)
	}

	out := &entity.GatewaySubscription{
		ID:          sub.ID,
		PeriodStart: time.Unix(sub.CurrentPeriodStart, 0).UTC(),
		PeriodEnd:   time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	return out, nil
}

// CancelAtPeriodEnd は期間終了時の解約を設定します。
func (g *Gateway) CancelAtPeriodEnd(ctx context.Context, id string) error {
	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(true)}
	params.Context = ctx

	if _, err := g.api.Subscriptions.Update(id, params); err != nil {
		return fmt.Errorf("stripe cancel subscription: %w", err)
	}
	return nil
}

// ParseWebhook はStripe-Signatureヘッダーを検証し、イベントを解釈します。
// APIバージョンの不一致は許容します。
func (g *Gateway) ParseWebhook(payload []byte, signature string) (*entity.WebhookEvent, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidSignature, err)
	}

	out := &entity.WebhookEvent{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data == nil {
		return out, nil
	}

	switch out.Type {
	case entity.EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.UserID = s.Metadata[metadataUserID]
		if s.Subscription != nil {
			out.SubscriptionID = s.Subscription.ID
		}
		out.PaymentID = paymentID(&s)
		out.AmountTotal = s.AmountTotal
		out.Currency = string(s.Currency)

	case entity.EventInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		if inv.SubscriptionDetails != nil {
			out.UserID = inv.SubscriptionDetails.Metadata[metadataUserID]
		}
		if inv.Subscription != nil {
			out.SubscriptionID = inv.Subscription.ID
		}

	case entity.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		out.UserID = sub.Metadata[metadataUserID]
		out.SubscriptionID = sub.ID
	}
	return out, nil
}

// paymentID は支払いを一意に表すIDを、決済インテント、請求書、セッションの順で選びます。
func paymentID(s *stripe.CheckoutSession) string {
	if s.PaymentIntent != nil && s.PaymentIntent.ID != "" {
		return s.PaymentIntent.ID
	}
	if s.Invoice != nil && s.Invoice.ID != "" {
		return s.Invoice.ID
	}
	return s.ID
}
