// Package entity defines the domain entities for the summary feature.
package entity

// Summary is a short natural-language digest of an article.
type Summary struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	ReadingTime int      `json:"readingTime"`
}
