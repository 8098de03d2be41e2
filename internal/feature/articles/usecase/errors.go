// Package usecase implements the business logic for the articles feature.
package usecase

import "errors"

var (
	// ErrArticleNotFound is returned when an article does not exist or belongs to another user.
	ErrArticleNotFound = errors.New("article not found")

	// ErrDuplicateArticle is returned when the user already saved the URL.
	ErrDuplicateArticle = errors.New("article already exists")

	// ErrInvalidURL is returned when the URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrFetchFailed is returned when the page could not be downloaded or parsed.
	ErrFetchFailed = errors.New("failed to fetch article content")
)
