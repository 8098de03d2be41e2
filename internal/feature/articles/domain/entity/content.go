package entity

// ExtractedContent is what the extractor derives from a fetched page.
// The fields are heuristic; callers must treat them as approximate.
type ExtractedContent struct {
	Title    string
	Content  string // cleaned HTML fragment
	Author   string
	Source   string
	ImageURL string
	ReadTime int
}
