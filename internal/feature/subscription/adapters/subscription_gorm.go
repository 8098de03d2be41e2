// Package adapters はsubscriptionフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zaitan_backend/internal/feature/subscription/domain/entity"
	"zaitan_backend/internal/feature/subscription/usecase"
	"zaitan_backend/internal/platform/db"
)

type subscriptionGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.SubscriptionRepository = (*subscriptionGorm)(nil)

// NewSubscriptionGorm は指定されたgorm.DB接続でsubscriptionGormの新しいインスタンスを生成します。
func NewSubscriptionGorm(db *gorm.DB) *subscriptionGorm {
	return &subscriptionGorm{db: db, now: time.Now}
}

func (r *subscriptionGorm) FindByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *subscriptionGorm) FindByExternalID(ctx context.Context, externalID string) (*entity.Subscription, error) {
	return r.first(ctx, "external_subscription_id = ?", externalID)
}

// Upsert はuser_idが一致する行があれば更新し、なければ作成します。
func (r *subscriptionGorm) Upsert(ctx context.Context, s *entity.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan", "status", "external_subscription_id",
			"current_period_start", "current_period_end", "cancel_at_period_end", "updated_at",
		}),
	}).Create(s).Error
}

func (r *subscriptionGorm) UpdateStatus(ctx context.Context, userID string, status entity.Status) error {
	return r.update(ctx, userID, map[string]any{"status": status})
}

func (r *subscriptionGorm) SetCancelAtPeriodEnd(ctx context.Context, userID string, cancel bool) error {
	return r.update(ctx, userID, map[string]any{"cancel_at_period_end": cancel})
}

// CreatePayment は支払いを記録します。外部IDが重複する場合はusecase.ErrDuplicatePaymentを返します。
func (r *subscriptionGorm) CreatePayment(ctx context.Context, p *entity.Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrDuplicatePayment
		}
		return err
	}
	return nil
}

func (r *subscriptionGorm) update(ctx context.Context, userID string, values map[string]any) error {
	values["updated_at"] = r.now()
	res := r.db.WithContext(ctx).Model(&entity.Subscription{}).Where("user_id = ?", userID).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrSubscriptionNotFound
	}
	return nil
}

func (r *subscriptionGorm) first(ctx context.Context, query string, arg any) (*entity.Subscription, error) {
	var s entity.Subscription
	if err := r.db.WithContext(ctx).Where(query, arg).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}
