// Package dto はsummaryフィーチャーのリクエスト・レスポンス型を定義します。
package dto

// SummaryReq は/api/ai/summaryのリクエストボディです。
type SummaryReq struct {
	Content string `json:"content" binding:"required"`
	Title   string `json:"title"`
}

// AskReq は/api/ai/askのリクエストボディです。
type AskReq struct {
	Content  string `json:"content" binding:"required"`
	Question string `json:"question" binding:"required"`
}

// AskRes は質問への回答です。
type AskRes struct {
	Answer string `json:"answer"`
}
