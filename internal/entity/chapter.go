package entity

type Chapter struct {
	Title          string `json:"title" bson:"title"`
	LengthMs       int    `json:"lengthMs" bson:"lengthMs"`
	StartOffsetMs  int    `json:"startOffsetMs" bson:"startOffsetMs"`
	StartOffsetSec int    `json:"startOffsetSec" bson:"startOffsetSec"`
}

// ChapterInfo is the external view of a book's chapter listing.
type ChapterInfo struct {
	Asin                 string    `json:"asin" bson:"asin"`
	Region               string    `json:"region,omitempty" bson:"region,omitempty"`
	BrandIntroDurationMs int       `json:"brandIntroDurationMs" bson:"brandIntroDurationMs"`
	BrandOutroDurationMs int       `json:"brandOutroDurationMs" bson:"brandOutroDurationMs"`
	IsAccurate           bool      `json:"isAccurate" bson:"isAccurate"`
	RuntimeLengthMs      int       `json:"runtimeLengthMs" bson:"runtimeLengthMs"`
	RuntimeLengthSec     int       `json:"runtimeLengthSec" bson:"runtimeLengthSec"`
	Chapters             []Chapter `json:"chapters" bson:"chapters"`
}

func (c ChapterInfo) Identity() (string, string) { return c.Asin, c.Region }
