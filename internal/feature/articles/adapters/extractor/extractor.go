// Package extractor derives article fields from a fetched HTML page.
package extractor

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"zaitan_backend/internal/feature/articles/domain/entity"
	"zaitan_backend/internal/shared/textutil"
)

// DefaultTitle is used when a page has no usable title.
const DefaultTitle = "无标题"

// ContentRule selects a candidate body region. The first rule whose first match
// has more than MinTextLength runes of text wins.
type ContentRule struct {
	Selector      string
	MinTextLength int
}

// DefaultRules are tried in order, most specific first.
var DefaultRules = []ContentRule{
	{Selector: "article", MinTextLength: 200},
	{Selector: ".article-content", MinTextLength: 200},
	{Selector: ".post-content", MinTextLength: 200},
	{Selector: ".entry-content", MinTextLength: 200},
	{Selector: "#article-content", MinTextLength: 200},
	{Selector: ".content", MinTextLength: 200},
	{Selector: "main", MinTextLength: 200},
	{Selector: `[class*="content"]`, MinTextLength: 200},
	{Selector: "body", MinTextLength: 200},
}

const strippedElements = "script, style, nav, header, footer"

// Extractor applies content rules with goquery and falls back to readability.
type Extractor struct {
	rules []ContentRule
}

// New returns an Extractor using rules, or DefaultRules when none are given.
func New(rules ...ContentRule) *Extractor {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Extractor{rules: rules}
}

// Extract parses page and returns the heuristically extracted article.
// pageURL resolves relative image links and supplies the source host.
func (e *Extractor) Extract(page []byte, pageURL *url.URL) (*entity.ExtractedContent, error) {
	if pageURL == nil {
		return nil, fmt.Errorf("page url is required")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &entity.ExtractedContent{
		Title:  extractTitle(doc),
		Source: SourceFromURL(pageURL),
	}

	region := e.matchRegion(doc)
	if region != nil {
		out.Content = cleanHTML(region)
	}
	out.Author = extractAuthor(doc)

	var fallbackImage string
	if region == nil {
		// どのルールにも一致しない場合はreadabilityで本文を抽出する
		article, err := readability.FromReader(bytes.NewReader(page), pageURL)
		if err != nil {
			slog.Debug("readability extraction failed", "error", err, "url", pageURL.String())
		} else {
			out.Content = strings.TrimSpace(article.Content)
			if out.Author == "" {
				out.Author = strings.TrimSpace(article.Byline)
			}
			fallbackImage = article.Image
		}
	}

	out.ImageURL = resolve(pageURL, extractImage(doc, region, fallbackImage))
	out.ReadTime = textutil.ReadTime(textutil.PlainText(out.Content))
	return out, nil
}

// matchRegion returns the first rule match with enough text, or nil.
func (e *Extractor) matchRegion(doc *goquery.Document) *goquery.Selection {
	for _, rule := range e.rules {
		sel := doc.Find(rule.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(sel.Text())) > rule.MinTextLength {
			return sel
		}
	}
	return nil
}

// cleanHTML returns the inner HTML of a copy of sel without chrome elements or presentational attributes.
func cleanHTML(sel *goquery.Selection) string {
	clone := sel.Clone()
	clone.Find(strippedElements).Remove()
	clone.Find("*").RemoveAttr("class").RemoveAttr("style")
	html, err := clone.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html)
}

func extractTitle(doc *goquery.Document) string {
	candidates := []string{
		doc.Find("h1").First().Text(),
		doc.Find("title").First().Text(),
		attr(doc, `meta[property="og:title"]`, "content"),
	}
	for _, c := range candidates {
		if t := textutil.CollapseWhitespace(c); t != "" {
			return t
		}
	}
	return DefaultTitle
}

func extractAuthor(doc *goquery.Document) string {
	candidates := []string{
		attr(doc, `meta[name="author"]`, "content"),
		doc.Find(".author").First().Text(),
		doc.Find(`[class*="author"]`).First().Text(),
	}
	for _, c := range candidates {
		if a := textutil.CollapseWhitespace(c); a != "" {
			return a
		}
	}
	return ""
}

func extractImage(doc *goquery.Document, region *goquery.Selection, fallback string) string {
	if og := strings.TrimSpace(attr(doc, `meta[property="og:image"]`, "content")); og != "" {
		return og
	}
	if region != nil {
		if src, ok := region.Find("img[src]").First().Attr("src"); ok && strings.TrimSpace(src) != "" {
			return strings.TrimSpace(src)
		}
	}
	for _, selector := range []string{"article img[src]", ".content img[src]"} {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && strings.TrimSpace(src) != "" {
			return strings.TrimSpace(src)
		}
	}
	return strings.TrimSpace(fallback)
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return v
}

// resolve makes ref absolute against base. Unparseable refs are returned unchanged.
func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// SourceFromURL returns the hostname without a leading "www.".
func SourceFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
