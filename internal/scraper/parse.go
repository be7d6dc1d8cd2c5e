package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/letaky-tools/letaky/internal/brochure"
	"github.com/letaky-tools/letaky/internal/logger"
)

const (
	ShopSidebarSelector = "#left-category-shops"
	BrochureSelector    = ".brochure-thumb"
	TitleSelector       = "strong"
	DateSelector        = ".grid-item-content small"
	ImageSelector       = "img"
)

// thumbnailAttrs are tried in order; lazy-loaded images keep the real URL in data-src
var thumbnailAttrs = []string{"data-src", "src", "srcset"}

// ParseShopLinks extracts absolute shop URLs from the directory page.
// Relative links are resolved against base. Duplicates are dropped, order is kept.
func ParseShopLinks(r io.Reader, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	sidebar := doc.Find(ShopSidebarSelector).First()
	if sidebar.Length() == 0 {
		logger.Warn("Shop sidebar not found", logger.Fields{
			"selector": ShopSidebarSelector,
			"url":      base.String(),
		}, nil)
		return []string{}, nil
	}

	links := make([]string, 0)
	seen := make(map[string]bool)
	sidebar.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			logger.Debug("Skipping malformed shop link", logger.Fields{"href": href})
			return
		}

		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	return links, nil
}

// ParseBrochures extracts the brochures of one shop page that are active at now.
// Blocks whose validity text cannot be recognised are skipped with a warning.
// ParsedTime is the wall clock at extraction, not now.
func (s *Scraper) ParseBrochures(r io.Reader, shopName string, now time.Time) ([]*brochure.Brochure, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	brochures := make([]*brochure.Brochure, 0)

	doc.Find(BrochureSelector).Each(func(_ int, block *goquery.Selection) {
		title := textOf(block, TitleSelector)
		dateText := textOf(block, DateSelector)

		validity, err := s.resolver.Resolve(dateText)
		if err != nil {
			s.metrics.IncrCounter("brochures.unrecognized")
			logger.Warn("Skipping brochure with unrecognized validity", logger.Fields{
				"shop":  shopName,
				"title": title,
				"text":  dateText,
			}, err)
			return
		}

		if !brochure.IsActive(validity, now) {
			s.metrics.IncrCounter("brochures.inactive")
			logger.Debug("Skipping brochure outside its validity window", logger.Fields{
				"shop":     shopName,
				"title":    title,
				"validity": validity.String(),
			})
			return
		}

		s.metrics.IncrCounter("brochures.accepted")
		brochures = append(brochures, brochure.NewBrochure(title, thumbnail(block), shopName, validity, s.now()))
	})

	return brochures, nil
}

// textOf returns the trimmed text of the first match of selector, or NotAvailable
func textOf(block *goquery.Selection, selector string) string {
	sel := block.Find(selector).First()
	if sel.Length() == 0 {
		return brochure.NotAvailable
	}
	return strings.TrimSpace(sel.Text())
}

// thumbnail returns the first non-empty image source of the block
func thumbnail(block *goquery.Selection) string {
	img := block.Find(ImageSelector).First()
	if img.Length() == 0 {
		return brochure.NotAvailable
	}
	for _, attr := range thumbnailAttrs {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return brochure.NotAvailable
}

// ShopName derives the display name from the last path segment of a shop URL:
// "https://www.prospektmaschine.de/kaufland/" becomes "Kaufland".
func ShopName(shopURL string) string {
	path := shopURL
	if u, err := url.Parse(shopURL); err == nil {
		path = u.Path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	return capitalize(segments[len(segments)-1])
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := cases.Lower(language.Und).String(s)
	first, size := utf8.DecodeRuneInString(lower)
	return cases.Upper(language.Und).String(string(first)) + lower[size:]
}
