package entity

// Person is a contributor reference on a book.
type Person struct {
	Asin string `json:"asin,omitempty" bson:"asin,omitempty"`
	Name string `json:"name" bson:"name"`
}

type Series struct {
	Asin     string `json:"asin" bson:"asin"`
	Name     string `json:"name" bson:"name"`
	Position string `json:"position,omitempty" bson:"position,omitempty"`
}

// Book is the external view of a book.
type Book struct {
	Asin             string   `json:"asin" bson:"asin"`
	Region           string   `json:"region,omitempty" bson:"region,omitempty"`
	Title            string   `json:"title" bson:"title"`
	Subtitle         string   `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Description      string   `json:"description,omitempty" bson:"description,omitempty"`
	Summary          string   `json:"summary,omitempty" bson:"summary,omitempty"`
	Authors          []Person `json:"authors" bson:"authors"`
	Narrators        []Person `json:"narrators,omitempty" bson:"narrators,omitempty"`
	Publisher        string   `json:"publisherName,omitempty" bson:"publisherName,omitempty"`
	ReleaseDate      string   `json:"releaseDate,omitempty" bson:"releaseDate,omitempty"`
	Language         string   `json:"language,omitempty" bson:"language,omitempty"`
	Format           string   `json:"formatType,omitempty" bson:"formatType,omitempty"`
	Image            string   `json:"image,omitempty" bson:"image,omitempty"`
	IsAdult          bool     `json:"isAdult" bson:"isAdult"`
	Rating           string   `json:"rating,omitempty" bson:"rating,omitempty"`
	RuntimeLengthMin int      `json:"runtimeLengthMin,omitempty" bson:"runtimeLengthMin,omitempty"`
	Copyright        int      `json:"copyright,omitempty" bson:"copyright,omitempty"`
	Isbn             string   `json:"isbn,omitempty" bson:"isbn,omitempty"`
	LiteratureType   string   `json:"literatureType,omitempty" bson:"literatureType,omitempty"`
	SeriesPrimary    *Series  `json:"seriesPrimary,omitempty" bson:"seriesPrimary,omitempty"`
	SeriesSecondary  *Series  `json:"seriesSecondary,omitempty" bson:"seriesSecondary,omitempty"`
	Genres           []Genre  `json:"genres,omitempty" bson:"genres,omitempty"`
}

func (b Book) Identity() (string, string) { return b.Asin, b.Region }
