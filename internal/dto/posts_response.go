package dto

import "github.com/BloggingApp/post-interaction-service/internal/model"

// PostResponse flattens the post and its live counts. IsLiked is set only when the
// requester is known.
type PostResponse struct {
	model.Post
	model.PostCounts
	IsLiked *bool `json:"is_liked,omitempty"`
}

type ViewPostResponse struct {
	Success    bool  `json:"success"`
	ViewsCount int64 `json:"views_count"`
}

type LikePostResponse struct {
	Success    bool  `json:"success"`
	LikesCount int64 `json:"likes_count"`
	IsLiked    bool  `json:"is_liked"`
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type Empty struct{}
