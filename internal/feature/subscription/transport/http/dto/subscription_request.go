// Package dto はsubscriptionフィーチャーのリクエスト・レスポンス型を定義します。
package dto

// CheckoutReq は/api/subscription/createのリクエストボディです。
type CheckoutReq struct {
	Plan string `json:"plan" binding:"required"`
}

// CheckoutRes は決済ページのURLです。
type CheckoutRes struct {
	URL string `json:"url"`
}

// WebhookRes はWebhookの受信確認です。
type WebhookRes struct {
	Received bool `json:"received"`
}
