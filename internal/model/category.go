package model

// Category is the single-valued classification of a title, e.g. "book" or
// "film". The slug is the natural key used in URLs and title payloads.
//
// Fields:
//  ID   – primary key identifier.
//  Name – human-friendly category name.
//  Slug – unique URL-safe key matching [-a-zA-Z0-9_]+.
type Category struct {
	ID   uint64 `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
