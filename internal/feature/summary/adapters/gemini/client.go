// Package gemini はGoogle Gemini APIを使用したテキスト生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"zaitan_backend/internal/feature/summary/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	temperature = 0.7
)

// Config はGeminiクライアントの設定です。
type Config struct {
	APIKey string
	Model  string
	// BaseURL はAPIのエンドポイントを差し替える場合に指定します（テスト用）。
	BaseURL string
}

// GeminiGenerator はGemini APIでテキストを生成します。
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// GeminiGeneratorがGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator はAPIキーでGeminiGeneratorの新しいインスタンスを生成します。
// httpClientのタイムアウトが各リクエストの上限になります。
func NewGeminiGenerator(ctx context.Context, cfg Config, httpClient *http.Client) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate はシステム指示とユーザー入力からテキストを生成します。
func (g *GeminiGenerator) Generate(ctx context.Context, p usecase.Prompt) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		MaxOutputTokens: p.MaxTokens,
	}
	if p.System != "" {
		config.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), config)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}
