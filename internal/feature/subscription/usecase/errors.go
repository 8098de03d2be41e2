// Package usecase はsubscriptionフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrDuplicatePayment     = errors.New("payment already recorded")
	ErrInvalidPlan          = errors.New("invalid plan")
	ErrPriceNotConfigured   = errors.New("price not configured")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
)
