package model

import "time"

type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatorID   int64     `json:"creator_id"`
	IsPrivate   bool      `json:"is_private"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostCounts are live aggregates over the engagement tables.
type PostCounts struct {
	Views    int64 `json:"views_count"`
	Likes    int64 `json:"likes_count"`
	Comments int64 `json:"comments_count"`
}

type FullPost struct {
	Post   Post       `json:"post"`
	Counts PostCounts `json:"counts"`
}

// PostAccess is the slice of a post row that authorization and cache freshness depend on.
type PostAccess struct {
	CreatorID int64
	IsPrivate bool
	UpdatedAt time.Time
}

type PostUpdate struct {
	Title       *string
	Description *string
	IsPrivate   bool
	Tags        *[]string
}

type View struct {
	PostID   int64     `json:"post_id"`
	UserID   int64     `json:"user_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

type Like struct {
	PostID  int64     `json:"post_id"`
	UserID  int64     `json:"user_id"`
	LikedAt time.Time `json:"liked_at"`
}
