package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"time"

	"zaitan_backend/internal/feature/articles/domain/entity"
	"zaitan_backend/internal/shared/textutil"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
	// offset = (page-1)*limit がオーバーフローしない上限
	maxPage      = math.MaxInt / maxLimit

	defaultTitle = "无标题"
)

// CreateInput is an ingestion request. Non-empty optional fields override extracted values.
// When Content is set the page is not fetched.
type CreateInput struct {
	URL      string
	Title    string
	Content  string
	Author   string
	Source   string
	ImageURL string
	Category string
	Tags     []string
}

// Pagination describes a page of list results.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// ListResult is one page of a user's articles.
type ListResult struct {
	Articles   []entity.ArticleView
	Pagination Pagination
}

// ArticleUsecase implements article ingestion and the owner-scoped article store.
type ArticleUsecase struct {
	repo       ArticleRepository
	fetcher    Fetcher
	extractor  Extractor
	summarizer Summarizer
	snapshots  SnapshotStore // optional
	now        func() time.Time
}

// NewArticleUsecase wires the usecase. snapshots may be nil.
func NewArticleUsecase(repo ArticleRepository, fetcher Fetcher, extractor Extractor, summarizer Summarizer, snapshots SnapshotStore) *ArticleUsecase {
	return &ArticleUsecase{
		repo:       repo,
		fetcher:    fetcher,
		extractor:  extractor,
		summarizer: summarizer,
		snapshots:  snapshots,
		now:        time.Now,
	}
}

// NormalizeListQuery applies defaults and bounds to paging.
func NormalizeListQuery(q entity.ListQuery) entity.ListQuery {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Page > maxPage {
		q.Page = maxPage
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// List returns a page of the user's articles, newest first.
func (u *ArticleUsecase) List(ctx context.Context, userID string, q entity.ListQuery) (*ListResult, error) {
	q = NormalizeListQuery(q)

	articles, total, err := u.repo.List(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if articles == nil {
		articles = []entity.ArticleView{}
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &ListResult{
		Articles: articles,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(q.Page)*int64(q.Limit) < total,
		},
	}, nil
}

// ParseArticleURL accepts only absolute http and https URLs.
func ParseArticleURL(raw string) (*url.URL, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Create ingests a URL for the user: fetch and extract unless content was supplied,
// summarize, then store. The raw page is archived when a snapshot store is configured.
func (u *ArticleUsecase) Create(ctx context.Context, userID string, in CreateInput) (*entity.Article, error) {
	pageURL, err := ParseArticleURL(in.URL)
	if err != nil {
		return nil, err
	}
	in.URL = pageURL.String()

	exists, err := u.repo.ExistsByURL(ctx, userID, in.URL)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return nil, ErrDuplicateArticle
	}

	var (
		extracted *entity.ExtractedContent
		page      []byte
	)
	if strings.TrimSpace(in.Content) != "" {
		extracted = &entity.ExtractedContent{
			Content:  in.Content,
			Source:   strings.TrimPrefix(pageURL.Hostname(), "www."),
			ReadTime: textutil.ReadTime(textutil.PlainText(in.Content)),
		}
	} else {
		page, err = u.fetcher.Fetch(ctx, in.URL)
		if err != nil {
			slog.Warn("article fetch failed", "error", err, "url", in.URL, "user_id", userID)
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		extracted, err = u.extractor.Extract(page, pageURL)
		if err != nil {
			slog.Warn("article extraction failed", "error", err, "url", in.URL, "user_id", userID)
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
	}

	a := &entity.Article{
		UserID:   userID,
		URL:      in.URL,
		Title:    firstNonEmpty(in.Title, extracted.Title, defaultTitle),
		Content:  extracted.Content,
		Author:   firstNonEmpty(in.Author, extracted.Author),
		Source:   firstNonEmpty(in.Source, extracted.Source),
		ImageURL: firstNonEmpty(in.ImageURL, extracted.ImageURL),
		ReadTime: max(extracted.ReadTime, 1),
		Category: firstNonEmpty(in.Category, entity.DefaultCategory),
		Tags:     in.Tags,
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}

	s := u.summarizer.Summarize(ctx, textutil.PlainText(a.Content), a.Title)
	a.Summary = s.Summary
	a.KeyPoints = s.KeyPoints

	if err := u.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateArticle) {
			return nil, err
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	slog.Info("article saved", "article_id", a.ID, "user_id", userID, "source", a.Source)

	if u.snapshots != nil && len(page) > 0 {
		if err := u.snapshots.Put(ctx, userID, a.ID, page); err != nil {
			slog.Warn("snapshot upload failed", "error", err, "article_id", a.ID)
		}
	}
	return a, nil
}

// Get returns the user's article and records the read.
func (u *ArticleUsecase) Get(ctx context.Context, userID, id string) (*entity.ArticleView, error) {
	view, err := u.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.RecordRead(ctx, userID, id, u.now()); err != nil {
		slog.Warn("failed to record read history", "error", err, "article_id", id, "user_id", userID)
	}
	return view, nil
}

// Update applies a partial update to the user's article.
func (u *ArticleUsecase) Update(ctx context.Context, userID, id string, p entity.Patch) error {
	return u.repo.Update(ctx, userID, id, p)
}

// MarkRead sets isRead on the user's article.
func (u *ArticleUsecase) MarkRead(ctx context.Context, userID, id string) error {
	read := true
	return u.repo.Update(ctx, userID, id, entity.Patch{IsRead: &read})
}

// Delete removes the user's article.
func (u *ArticleUsecase) Delete(ctx context.Context, userID, id string) error {
	return u.repo.Delete(ctx, userID, id)
}

// ToggleFavorite flips the favorite flag on the user's article.
func (u *ArticleUsecase) ToggleFavorite(ctx context.Context, userID, id string) (bool, error) {
	return u.repo.ToggleFavorite(ctx, userID, id)
}

// ListFavorites returns the user's favorited articles, newest favorite first.
func (u *ArticleUsecase) ListFavorites(ctx context.Context, userID string) ([]entity.FavoriteView, error) {
	favs, err := u.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []entity.FavoriteView{}
	}
	return favs, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
