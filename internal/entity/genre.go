package entity

const (
	GenreTypeGenre = "genre"
	GenreTypeTag   = "tag"
)

type Genre struct {
	Asin string `json:"asin" bson:"asin"`
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"` // genre, tag
}
