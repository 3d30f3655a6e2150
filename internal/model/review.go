package model

import "time"

// Review is a user's opinion of a title together with a score from 1 to
// 10. A user may review a given title at most once; the pair
// (title, author) is unique. Reviews are listed newest-first.
//
// Fields:
//  ID        – primary key identifier.
//  TitleID   – reviewed title (cascade delete).
//  AuthorID  – authoring user (cascade delete).
//  Author    – username of the author, joined on read.
//  Text      – review body.
//  Score     – integer score in [1,10].
//  CreatedAt – publication timestamp, set once on create.
type Review struct {
	ID        uint64    `json:"id"`
	TitleID   uint64    `json:"-"`
	AuthorID  uint64    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"pub_date"`
}
