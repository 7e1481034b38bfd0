package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockType distinguishes the kinds of content blocks a post is built from.
type BlockType string

const (
	BlockTypeText  BlockType = "text"
	BlockTypeImage BlockType = "image"
)

// Block is one unit of post body content. Text blocks carry Content,
// image blocks carry URL and an optional Caption.
type Block struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content,omitempty"`
	URL     string    `json:"url,omitempty"`
	Caption string    `json:"caption,omitempty"`
}

// Comment is a reader comment attached to a post. Comments are embedded
// in the post document rather than stored relationally — they are only
// ever read together with the post.
type Comment struct {
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlogPost is a full article including body blocks and comments.
// Likes and Views are monotonically non-decreasing counters bumped by
// dedicated endpoints.
type BlogPost struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Date      time.Time `json:"date"`
	ReadTime  string    `json:"readTime"`
	Category  string    `json:"category"`
	Image     string    `json:"image"`
	Excerpt   string    `json:"excerpt"`
	Blocks    []Block   `json:"blocks"`
	Likes     int       `json:"likes"`
	Views     int       `json:"views"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogSummary is the listing shape: everything a card needs, without the
// body blocks or the comment thread.
type BlogSummary struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	ReadTime string    `json:"readTime"`
	Category string    `json:"category"`
	Image    string    `json:"image"`
	Excerpt  string    `json:"excerpt"`
	Likes    int       `json:"likes"`
	Views    int       `json:"views"`
}
