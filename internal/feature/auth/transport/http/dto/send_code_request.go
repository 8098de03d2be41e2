// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// SendCodeReq は/send-codeエンドポイントのリクエストボディを表します。
type SendCodeReq struct {
	Phone string `json:"phone" binding:"required"`
}

// SendCodeRes は/send-codeのレスポンスです。Codeは開発環境でのみ設定されます。
type SendCodeRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
