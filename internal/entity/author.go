package entity

// Author is the external view of an author profile.
type Author struct {
	Asin        string  `json:"asin" bson:"asin"`
	Region      string  `json:"region,omitempty" bson:"region,omitempty"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
	Genres      []Genre `json:"genres,omitempty" bson:"genres,omitempty"`
}

func (a Author) Identity() (string, string) { return a.Asin, a.Region }

// AuthorMatch is a single name search hit.
type AuthorMatch struct {
	Asin string `json:"asin" bson:"asin"`
	Name string `json:"name" bson:"name"`
}
