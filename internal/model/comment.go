package model

import "time"

// Comment is a remark left under a review. Comments are listed
// newest-first and disappear with their review or author.
//
// Fields:
//  ID        – primary key identifier.
//  ReviewID  – parent review (cascade delete).
//  AuthorID  – authoring user (cascade delete).
//  Author    – username of the author, joined on read.
//  Text      – comment body.
//  CreatedAt – publication timestamp.
type Comment struct {
	ID        uint64    `json:"id"`
	ReviewID  uint64    `json:"-"`
	AuthorID  uint64    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"pub_date"`
}
