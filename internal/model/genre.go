package model

// Genre is a multi-valued tag attached to titles through the genre_titles
// linking table. Like Category, the slug is the natural key.
//
// Fields:
//  ID   – primary key identifier.
//  Name – human-friendly genre name.
//  Slug – unique URL-safe key matching [-a-zA-Z0-9_]+.
type Genre struct {
	ID   uint64 `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
