package usecase

import (
	"strings"
	"unicode/utf8"

	"zaitan_backend/internal/feature/summary/domain/entity"
	"zaitan_backend/internal/shared/textutil"
)

const (
	// NoSummary は要約できる文がない場合の要約です。
	NoSummary = "暂无摘要"

	minSentenceRunes = 10
	summarySentences = 3
)

// LocalKeyPoints はローカル要約が返す固定の要点です。
var LocalKeyPoints = []string{"文章核心观点概述", "关键信息提炼", "重要结论总结"}

func isSentenceEnd(r rune) bool {
	switch r {
	case '。', '！', '？', '.', '!', '?':
		return true
	}
	return false
}

// LocalSummary は先頭の文を繋げて要約を作ります。外部呼び出しは行いません。
func LocalSummary(text string) entity.Summary {
	plain := textutil.PlainText(text)

	var picked []string
	for _, s := range strings.FieldsFunc(plain, isSentenceEnd) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= minSentenceRunes {
			continue
		}
		picked = append(picked, s)
		if len(picked) == summarySentences {
			break
		}
	}

	summary := NoSummary
	if len(picked) > 0 {
		summary = strings.Join(picked, "。") + "。"
	}

	return entity.Summary{
		Summary:     summary,
		KeyPoints:   append([]string(nil), LocalKeyPoints...),
		ReadingTime: textutil.ReadTime(plain),
	}
}
