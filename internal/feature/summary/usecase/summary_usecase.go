package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"zaitan_backend/internal/feature/summary/domain/entity"
	"zaitan_backend/internal/shared/textutil"
)

const (
	summaryInputRunes = 3000
	askInputRunes     = 4000
	maxOutputTokens   = 500

	summarySystem = "你是一个专业的文章摘要助手。请用中文生成简洁的摘要，并提取3-5个关键要点。"
	askSystem     = "基于提供的文章内容回答用户问题。如果问题与文章无关，请礼貌地指出。"

	// PendingKeyPoint は応答に番号付きの行がない場合の要点です。
	PendingKeyPoint = "关键信息待提取"
)

var numberedLine = regexp.MustCompile(`^\d+\.`)

// SummaryUsecase は言語モデルによる要約と質問応答を提供します。
// 言語モデルがない場合や失敗した場合、要約はローカル要約に切り替わります。
type SummaryUsecase struct {
	llm Generator // nilの場合はローカル要約のみ
}

// NewSummaryUsecase はSummaryUsecaseを生成します。llmはnilでも構いません。
func NewSummaryUsecase(llm Generator) *SummaryUsecase {
	return &SummaryUsecase{llm: llm}
}

// Summarize は本文とタイトルから要約を生成します。エラーは返しません。
func (u *SummaryUsecase) Summarize(ctx context.Context, text, title string) entity.Summary {
	if u.llm == nil {
		return LocalSummary(text)
	}

	plain := textutil.PlainText(text)
	resp, err := u.llm.Generate(ctx, Prompt{
		System: summarySystem,
		User: fmt.Sprintf("标题：%s\n\n内容：%s\n\n请生成：\n1. 一句话摘要（50字以内）\n2. 3-5个关键要点",
			title, textutil.Truncate(plain, summaryInputRunes)),
		MaxTokens: maxOutputTokens,
	})
	if err != nil {
		slog.Warn("llm summary failed, using local summary", "error", err)
		return LocalSummary(text)
	}

	s, ok := ParseSummary(resp)
	if !ok {
		slog.Warn("llm returned empty summary, using local summary")
		return LocalSummary(text)
	}
	s.ReadingTime = textutil.ReadTime(plain)
	return s
}

// ParseSummary は応答の最初の行を要約、番号付きの行を要点として解釈します。
// 空の応答の場合はfalseを返します。
func ParseSummary(resp string) (entity.Summary, bool) {
	var lines []string
	for _, l := range strings.Split(resp, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return entity.Summary{}, false
	}

	points := []string{}
	for _, l := range lines[1:] {
		if numberedLine.MatchString(l) {
			points = append(points, l)
		}
	}
	if len(points) == 0 {
		points = []string{PendingKeyPoint}
	}
	return entity.Summary{Summary: lines[0], KeyPoints: points}, true
}

// Ask は記事の内容に基づいて質問に回答します。ローカルの代替手段はありません。
func (u *SummaryUsecase) Ask(ctx context.Context, content, question string) (string, error) {
	if u.llm == nil {
		return "", ErrLLMUnavailable
	}

	answer, err := u.llm.Generate(ctx, Prompt{
		System:    askSystem,
		User:      fmt.Sprintf("文章内容：\n%s\n\n用户问题：%s", textutil.Truncate(textutil.PlainText(content), askInputRunes), question),
		MaxTokens: maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAskFailed, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrAskFailed
	}
	return answer, nil
}
