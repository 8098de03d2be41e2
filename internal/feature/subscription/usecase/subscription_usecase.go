package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"zaitan_backend/internal/feature/subscription/domain/entity"
)

// Prices はプランごとの決済サービス上の価格IDです。
type Prices struct {
	Monthly string
	Yearly  string
}

// StatusView は購読状態のレスポンスです。購読がない場合はStatusのみ設定されます。
type StatusView struct {
	Status            entity.Status `json:"status"`
	Plan              entity.Plan   `json:"plan,omitempty"`
	CurrentPeriodEnd  *time.Time    `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd *bool         `json:"cancelAtPeriodEnd,omitempty"`
}

// SubscriptionUsecase は購読の参照・開始・解約と決済Webhookの処理を提供します。
// 購読の状態はWebhookか解約リクエストでのみ書き換えられます。
type SubscriptionUsecase struct {
	repo        SubscriptionRepository
	gateway     PaymentGateway
	prices      Prices
	frontendURL string
}

// NewSubscriptionUsecase はSubscriptionUsecaseの新しいインスタンスを生成します。
func NewSubscriptionUsecase(repo SubscriptionRepository, gateway PaymentGateway, prices Prices, frontendURL string) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		repo:        repo,
		gateway:     gateway,
		prices:      prices,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Status はユーザーの購読状態を返します。
func (u *SubscriptionUsecase) Status(ctx context.Context, userID string) (*StatusView, error) {
	s, err := u.repo.FindByUserID(ctx, userID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return &StatusView{Status: entity.StatusInactive}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	cancel := s.CancelAtPeriodEnd
	return &StatusView{
		Status:            s.Status,
		Plan:              s.Plan,
		CurrentPeriodEnd:  s.CurrentPeriodEnd,
		CancelAtPeriodEnd: &cancel,
	}, nil
}

// IsActive はユーザーが有効な購読を持っているかを返します。
func (u *SubscriptionUsecase) IsActive(ctx context.Context, userID string) (bool, error) {
	s, err := u.repo.FindByUserID(ctx, userID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.IsActive(), nil
}

// Checkout は決済ページを作成し、そのURLを返します。
// phoneが空でない場合は仮のメールアドレスとして決済サービスに渡します。
func (u *SubscriptionUsecase) Checkout(ctx context.Context, userID, phone string, plan entity.Plan) (string, error) {
	if !plan.IsValid() {
		return "", ErrInvalidPlan
	}
	priceID := u.prices.Monthly
	if plan == entity.PlanYearly {
		priceID = u.prices.Yearly
	}
	if priceID == "" {
		return "", ErrPriceNotConfigured
	}

	p := CheckoutParams{
		UserID:     userID,
		PriceID:    priceID,
		SuccessURL: u.frontendURL + "/subscription/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  u.frontendURL + "/subscription/cancel",
	}
	if phone != "" {
		p.CustomerEmail = phone + "@zaitan.app"
	}

	url, err := u.gateway.CreateCheckoutSession(ctx, p)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	slog.Info("checkout session created", "user_id", userID, "plan", plan)
	return url, nil
}

// Cancel は現在の期間の終了時に購読を解約するよう設定します。
func (u *SubscriptionUsecase) Cancel(ctx context.Context, userID string) error {
	s, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if s.ExternalSubscriptionID == "" {
		return ErrSubscriptionNotFound
	}

	if err := u.gateway.CancelAtPeriodEnd(ctx, s.ExternalSubscriptionID); err != nil {
		return fmt.Errorf("cancel at gateway: %w", err)
	}
	if err := u.repo.SetCancelAtPeriodEnd(ctx, userID, true); err != nil {
		return fmt.Errorf("mark cancel at period end: %w", err)
	}
	slog.Info("subscription set to cancel at period end", "user_id", userID)
	return nil
}

// HandleWebhook は署名を検証し、購読に関わるイベントを反映します。
// 署名が不正な場合は何も変更せずErrInvalidSignatureを返します。
func (u *SubscriptionUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := u.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch ev.Type {
	case entity.EventCheckoutCompleted:
		return u.checkoutCompleted(ctx, ev)
	case entity.EventInvoicePaymentFailed:
		return u.setStatus(ctx, ev, entity.StatusPastDue)
	case entity.EventSubscriptionDeleted:
		return u.setStatus(ctx, ev, entity.StatusCanceled)
	default:
		slog.Debug("webhook event ignored", "event_id", ev.ID, "type", ev.Type)
		return nil
	}
}

func (u *SubscriptionUsecase) checkoutCompleted(ctx context.Context, ev *entity.WebhookEvent) error {
	if ev.UserID == "" || ev.SubscriptionID == "" {
		slog.Warn("checkout event without user or subscription", "event_id", ev.ID)
		return nil
	}

	gs, err := u.gateway.GetSubscription(ctx, ev.SubscriptionID)
	if err != nil {
		return fmt.Errorf("retrieve subscription: %w", err)
	}

	plan := u.planFor(gs.PriceID)
	start, end := gs.PeriodStart, gs.PeriodEnd
	err = u.repo.Upsert(ctx, &entity.Subscription{
		UserID:                 ev.UserID,
		Plan:                   plan,
		Status:                 entity.StatusActive,
		ExternalSubscriptionID: ev.SubscriptionID,
		CurrentPeriodStart:     &start,
		CurrentPeriodEnd:       &end,
		CancelAtPeriodEnd:      false,
	})
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	err = u.repo.CreatePayment(ctx, &entity.Payment{
		UserID:            ev.UserID,
		ExternalPaymentID: ev.PaymentID,
		Amount:            ev.AmountTotal,
		Currency:          ev.Currency,
		Status:            entity.PaymentStatusCompleted,
		Plan:              plan,
	})
	if errors.Is(err, ErrDuplicatePayment) {
		slog.Info("payment already recorded", "payment_id", ev.PaymentID, "event_id", ev.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	slog.Info("subscription activated", "user_id", ev.UserID, "plan", plan)
	return nil
}

// setStatus はイベントの対象ユーザーを特定して状態を更新します。
// メタデータにユーザーIDがない場合は外部購読IDで探し、現在の購読と異なるIDのイベントは無視します。
func (u *SubscriptionUsecase) setStatus(ctx context.Context, ev *entity.WebhookEvent, status entity.Status) error {
	var (
		s   *entity.Subscription
		err error
	)
	switch {
	case ev.UserID != "":
		s, err = u.repo.FindByUserID(ctx, ev.UserID)
	case ev.SubscriptionID != "":
		s, err = u.repo.FindByExternalID(ctx, ev.SubscriptionID)
	default:
		err = ErrSubscriptionNotFound
	}
	if errors.Is(err, ErrSubscriptionNotFound) || (err == nil && s == nil) {
		slog.Warn("webhook event matches no subscription", "event_id", ev.ID, "type", ev.Type, "user_id", ev.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find subscription: %w", err)
	}

	// 再購読後に届いた旧サブスクリプションのイベントで現在の購読を変更しない
	if ev.SubscriptionID != "" && s.ExternalSubscriptionID != "" && ev.SubscriptionID != s.ExternalSubscriptionID {
		slog.Info("webhook event for superseded subscription ignored",
			"event_id", ev.ID, "type", ev.Type, "user_id", s.UserID,
			"event_subscription", ev.SubscriptionID, "current_subscription", s.ExternalSubscriptionID)
		return nil
	}

	err = u.repo.UpdateStatus(ctx, s.UserID, status)
	if errors.Is(err, ErrSubscriptionNotFound) {
		slog.Warn("webhook event for user without subscription", "event_id", ev.ID, "user_id", s.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	slog.Info("subscription status changed", "user_id", s.UserID, "status", status)
	return nil
}

func (u *SubscriptionUsecase) planFor(priceID string) entity.Plan {
	if priceID != "" && priceID == u.prices.Monthly {
		return entity.PlanMonthly
	}
	return entity.PlanYearly
}
