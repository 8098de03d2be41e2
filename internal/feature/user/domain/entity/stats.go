// Package entity defines the read models of the user feature.
package entity

// Counts are the per-user totals shown on the profile and stats pages.
type Counts struct {
	Articles     int64
	ReadArticles int64
	Favorites    int64
	// TotalReadTime sums the estimated minutes of every article with read history.
	TotalReadTime int64
}

// DayActivity is the number of articles opened on one calendar day (UTC).
type DayActivity struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
