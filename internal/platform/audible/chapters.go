package audible

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/csandman/audnexus/internal/entity"
)

// metadataResponse matches /1.0/content/{asin}/metadata.
type metadataResponse struct {
	ContentMetadata struct {
		ChapterInfo *struct {
			BrandIntroDurationMs int  `json:"brandIntroDurationMs"`
			BrandOutroDurationMs int  `json:"brandOutroDurationMs"`
			IsAccurate           bool `json:"is_accurate"`
			RuntimeLengthMs      int  `json:"runtime_length_ms"`
			RuntimeLengthSec     int  `json:"runtime_length_sec"`
			Chapters             []struct {
				LengthMs       int    `json:"length_ms"`
				StartOffsetMs  int    `json:"start_offset_ms"`
				StartOffsetSec int    `json:"start_offset_sec"`
				Title          string `json:"title"`
			} `json:"chapters"`
		} `json:"chapter_info"`
	} `json:"content_metadata"`
}

// Chapters fetches the chapter listing for a book.
func (c *Client) Chapters(ctx context.Context, asin, region string) (entity.ChapterInfo, error) {
	api, _, err := c.hosts(region)
	if err != nil {
		return entity.ChapterInfo{}, err
	}
	url := fmt.Sprintf("%s/1.0/content/%s/metadata?response_groups=chapter_info,always-returned,content_reference,content_url&quality=High", api, asin)
	body, err := c.get(ctx, url)
	if err != nil {
		return entity.ChapterInfo{}, upstream(entity.KindChapter, asin, err)
	}
	info, err := parseChapters(body, asin, region)
	return info, upstream(entity.KindChapter, asin, err)
}

func parseChapters(body []byte, asin, region string) (entity.ChapterInfo, error) {
	var res metadataResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return entity.ChapterInfo{}, fmt.Errorf("decode chapter metadata: %w", err)
	}
	ci := res.ContentMetadata.ChapterInfo
	if ci == nil {
		return entity.ChapterInfo{}, fmt.Errorf("no chapter info: %w", entity.ErrNotFound)
	}
	info := entity.ChapterInfo{
		Asin:                 asin,
		Region:               region,
		BrandIntroDurationMs: ci.BrandIntroDurationMs,
		BrandOutroDurationMs: ci.BrandOutroDurationMs,
		IsAccurate:           ci.IsAccurate,
		RuntimeLengthMs:      ci.RuntimeLengthMs,
		RuntimeLengthSec:     ci.RuntimeLengthSec,
		Chapters:             make([]entity.Chapter, 0, len(ci.Chapters)),
	}
	for _, ch := range ci.Chapters {
		info.Chapters = append(info.Chapters, entity.Chapter{
			Title:          strings.TrimSpace(ch.Title),
			LengthMs:       ch.LengthMs,
			StartOffsetMs:  ch.StartOffsetMs,
			StartOffsetSec: ch.StartOffsetSec,
		})
	}
	return info, nil
}
