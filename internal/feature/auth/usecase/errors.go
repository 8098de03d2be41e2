// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by ID, phone or WeChat openid.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when a user with the same phone or openid already exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidPhone is returned when a phone number is not a mainland China mobile number.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidCode is returned when a verification code is missing, expired or wrong.
	ErrInvalidCode = errors.New("invalid or expired verification code")

	// ErrCodeNotFound is returned by a CodeStore when no live code exists for a phone.
	ErrCodeNotFound = errors.New("verification code not found")

	// ErrSMSFailed is returned when the SMS sender could not deliver a code.
	ErrSMSFailed = errors.New("failed to send sms")

	// ErrWeChatAuthFailed is returned when the WeChat code exchange fails for any reason.
	ErrWeChatAuthFailed = errors.New("wechat authorization failed")
)
