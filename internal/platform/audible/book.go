package audible

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csandman/audnexus/internal/entity"
)

const productGroups = "contributors,product_desc,product_extended_attrs,product_attrs,media,rating,series,category_ladders"

// productResponse matches /1.0/catalog/products/{asin}.
type productResponse struct {
	Product product `json:"product"`
}

type product struct {
	Asin              string            `json:"asin"`
	Title             string            `json:"title"`
	Subtitle          string            `json:"subtitle"`
	MerchandisingDesc string            `json:"merchandising_summary"`
	PublisherSummary  string            `json:"publisher_summary"`
	Authors           []contributor     `json:"authors"`
	Narrators         []contributor     `json:"narrators"`
	PublisherName     string            `json:"publisher_name"`
	ReleaseDate       string            `json:"release_date"`
	IssueDate         string            `json:"issue_date"`
	Language          string            `json:"language"`
	FormatType        string            `json:"format_type"`
	ContentType       string            `json:"content_type"`
	Images            map[string]string `json:"product_images"`
	IsAdult           bool              `json:"is_adult_product"`
	RuntimeLengthMin  int               `json:"runtime_length_min"`
	CopyrightNotice   string            `json:"copyright"`
	Isbn              string            `json:"isbn"`
	Rating            struct {
		Overall struct {
			DisplayStars float64 `json:"display_stars"`
		} `json:"overall_distribution"`
	} `json:"rating"`
	Series []struct {
		Asin     string `json:"asin"`
		Title    string `json:"title"`
		Sequence string `json:"sequence"`
	} `json:"series"`
	CategoryLadders []struct {
		Ladder []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"ladder"`
	} `json:"category_ladders"`
}

type contributor struct {
	Asin string `json:"asin"`
	Name string `json:"name"`
}

var (
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	yearPattern = regexp.MustCompile(`\d{4}`)
	nodePattern = regexp.MustCompile(`(?:node=|/)(\d{6,})`)
)

// Book fetches the product API and stitches it into a book. The product page
// is scraped for genres only when the API returned no category ladders, and
// scraped genres are used only when the scrape found some.
func (c *Client) Book(ctx context.Context, asin, region string) (entity.Book, error) {
	api, web, err := c.hosts(region)
	if err != nil {
		return entity.Book{}, err
	}

	url := fmt.Sprintf("%s/1.0/catalog/products/%s?response_groups=%s&image_sizes=500,1024", api, asin, productGroups)
	body, err := c.get(ctx, url)
	if err != nil {
		return entity.Book{}, upstream(entity.KindBook, asin, err)
	}
	book, err := parseProduct(body, asin, region)
	if err != nil {
		return entity.Book{}, upstream(entity.KindBook, asin, err)
	}
	if len(book.Genres) > 0 {
		return book, nil
	}

	c.log.Debug().Str("asin", asin).Msg("no category ladders, scraping product page for genres")
	page, err := c.get(ctx, fmt.Sprintf("%s/pd/%s", web, asin))
	if err != nil {
		return entity.Book{}, upstream(entity.KindBook, asin, err)
	}
	scraped, err := scrapeBookGenres(page)
	if err != nil {
		return entity.Book{}, upstream(entity.KindBook, asin, err)
	}
	if len(scraped) > 0 {
		book.Genres = scraped
	}
	return book, nil
}

func parseProduct(body []byte, asin, region string) (entity.Book, error) {
	var res productResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return entity.Book{}, fmt.Errorf("decode product: %w", err)
	}
	p := res.Product
	if p.Title == "" || len(p.Authors) == 0 {
		return entity.Book{}, fmt.Errorf("product %s is missing required fields", asin)
	}

	b := entity.Book{
		Asin:             asin,
		Region:           region,
		Title:            strings.TrimSpace(p.Title),
		Subtitle:         strings.TrimSpace(p.Subtitle),
		Description:      stripHTML(p.MerchandisingDesc),
		Summary:          p.PublisherSummary,
		Publisher:        p.PublisherName,
		ReleaseDate:      p.ReleaseDate,
		Language:         p.Language,
		Format:           p.FormatType,
		IsAdult:          p.IsAdult,
		RuntimeLengthMin: p.RuntimeLengthMin,
		Isbn:             p.Isbn,
		LiteratureType:   p.ContentType,
	}
	if b.ReleaseDate == "" {
		b.ReleaseDate = p.IssueDate
	}
	if img, ok := p.Images["500"]; ok {
		b.Image = img
	} else if img, ok := p.Images["1024"]; ok {
		b.Image = img
	}
	if p.Rating.Overall.DisplayStars > 0 {
		b.Rating = strconv.FormatFloat(p.Rating.Overall.DisplayStars, 'f', 1, 64)
	}
	if y := yearPattern.FindString(p.CopyrightNotice); y != "" {
		b.Copyright, _ = strconv.Atoi(y)
	}
	for _, a := range p.Authors {
		b.Authors = append(b.Authors, entity.Person{Asin: a.Asin, Name: strings.TrimSpace(a.Name)})
	}
	for _, n := range p.Narrators {
		b.Narrators = append(b.Narrators, entity.Person{Name: strings.TrimSpace(n.Name)})
	}
	for i, s := range p.Series {
		series := &entity.Series{Asin: s.Asin, Name: s.Title, Position: s.Sequence}
		switch i {
		case 0:
			b.SeriesPrimary = series
		case 1:
			b.SeriesSecondary = series
		}
	}
	b.Genres = ladderGenres(p)
	return b, nil
}

// ladderGenres takes the root of each category ladder as a genre and the
// remaining rungs as tags, dropping duplicates.
func ladderGenres(p product) []entity.Genre {
	var out []entity.Genre
	seen := map[string]bool{}
	for _, l := range p.CategoryLadders {
		for i, rung := range l.Ladder {
			if seen[rung.ID] {
				continue
			}
			seen[rung.ID] = true
			typ := entity.GenreTypeTag
			if i == 0 {
				typ = entity.GenreTypeGenre
			}
			out = append(out, entity.Genre{Asin: rung.ID, Name: rung.Name, Type: typ})
		}
	}
	return out
}

func scrapeBookGenres(body []byte) ([]entity.Genre, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse product page: %w", err)
	}
	var out []entity.Genre
	seen := map[string]bool{}
	add := func(s *goquery.Selection, typ string) {
		href, _ := s.Attr("href")
		m := nodePattern.FindStringSubmatch(href)
		name := strings.TrimSpace(s.Text())
		if m == nil || name == "" || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		out = append(out, entity.Genre{Asin: m[1], Name: name, Type: typ})
	}
	doc.Find("li.categoriesLabel a").Each(func(_ int, s *goquery.Selection) { add(s, entity.GenreTypeGenre) })
	doc.Find("div.bc-expander-content a.bc-chip").Each(func(_ int, s *goquery.Selection) { add(s, entity.GenreTypeTag) })
	return out, nil
}

func stripHTML(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
