package usecase

import (
	"context"
	"net/url"
	"time"

	"zaitan_backend/internal/feature/articles/domain/entity"
	summaryentity "zaitan_backend/internal/feature/summary/domain/entity"
)

// ArticleRepository persists articles and the per-user state attached to them.
// Every method is scoped to userID; rows owned by other users behave as missing.
type ArticleRepository interface {
	List(ctx context.Context, userID string, q entity.ListQuery) ([]entity.ArticleView, int64, error)
	ExistsByURL(ctx context.Context, userID, rawURL string) (bool, error)
	// Create returns ErrDuplicateArticle when (userID, URL) already exists.
	Create(ctx context.Context, a *entity.Article) error
	Get(ctx context.Context, userID, id string) (*entity.ArticleView, error)
	RecordRead(ctx context.Context, userID, articleID string, at time.Time) error
	Update(ctx context.Context, userID, id string, p entity.Patch) error
	// Delete removes the article with its favorites and read history.
	Delete(ctx context.Context, userID, id string) error
	// ToggleFavorite returns the new favorite state.
	ToggleFavorite(ctx context.Context, userID, articleID string) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]entity.FavoriteView, error)
}

// Fetcher downloads a page as UTF-8 HTML.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Extractor derives article fields from a page.
type Extractor interface {
	Extract(page []byte, pageURL *url.URL) (*entity.ExtractedContent, error)
}

// Summarizer digests article text. It never fails.
type Summarizer interface {
	Summarize(ctx context.Context, text, title string) summaryentity.Summary
}

// SnapshotStore archives raw pages.
type SnapshotStore interface {
	Put(ctx context.Context, userID, articleID string, html []byte) error
}
