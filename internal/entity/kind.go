package entity

// Kind names an entity collection. It doubles as the cache key namespace.
type Kind string

const (
	KindAuthor  Kind = "author"
	KindBook    Kind = "book"
	KindChapter Kind = "chapter"
)

func (k Kind) String() string { return string(k) }

// Profile is implemented by every entity shape the catalog stores.
type Profile interface {
	Identity() (asin, region string)
}
