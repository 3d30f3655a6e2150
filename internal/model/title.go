package model

// Title is a catalogued work that can be reviewed. Each title belongs to
// exactly one category and may carry any number of genres. The rating is
// never stored: it is the average review score truncated toward zero,
// computed when the title is read, and nil while the title has no reviews.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – name of the work.
//  Year        – release year, never in the future.
//  Rating      – derived average score, nil without reviews.
//  Description – optional free-form description.
//  Genres      – genres linked via genre_titles.
//  Category    – owning category.
type Title struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Rating      *int     `json:"rating"`
	Description string   `json:"description"`
	Genres      []Genre  `json:"genre"`
	Category    Category `json:"category"`
}
