package audible

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csandman/audnexus/internal/entity"
)

// Author scrapes an author's Audible page.
func (c *Client) Author(ctx context.Context, asin, region string) (entity.Author, error) {
	_, web, err := c.hosts(region)
	if err != nil {
		return entity.Author{}, err
	}
	body, err := c.get(ctx, fmt.Sprintf("%s/author/%s", web, asin))
	if err != nil {
		return entity.Author{}, upstream(entity.KindAuthor, asin, err)
	}
	a, err := parseAuthor(body, asin, region)
	return a, upstream(entity.KindAuthor, asin, err)
}

func parseAuthor(body []byte, asin, region string) (entity.Author, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return entity.Author{}, fmt.Errorf("parse author page: %w", err)
	}
	a := entity.Author{
		Asin:   asin,
		Region: region,
		Name:   strings.TrimSpace(doc.Find("h1.bc-heading").First().Text()),
	}
	if a.Name == "" {
		return entity.Author{}, fmt.Errorf("author page has no name: %w", entity.ErrNotFound)
	}
	a.Description = strings.TrimSpace(doc.Find("div.bc-expander-content").First().Text())
	if src, ok := doc.Find("img.author-image-outline").First().Attr("src"); ok {
		a.Image = src
	}

	seen := map[string]bool{}
	doc.Find("div.contentPositionClass div.bc-box a.bc-color-link").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := nodePattern.FindStringSubmatch(href)
		name := strings.TrimSpace(s.Text())
		if m == nil || name == "" || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		a.Genres = append(a.Genres, entity.Genre{Asin: m[1], Name: name, Type: entity.GenreTypeGenre})
	})
	return a, nil
}
