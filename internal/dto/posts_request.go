package dto

// DEFAULT_PAGE_SIZE applies when a list request names no page_size.
const DEFAULT_PAGE_SIZE = 10

type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatorID   int64    `json:"creator_id"`
	IsPrivate   bool     `json:"is_private"`
	Tags        []string `json:"tags"`
}

type GetPostRequest struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

// UpdatePostRequest carries presence per field: a nil Title, Description or Tags
// keeps the stored value. IsPrivate is always applied.
type UpdatePostRequest struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsPrivate   bool      `json:"is_private"`
	Tags        *[]string `json:"tags,omitempty"`
}

type DeletePostRequest struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

// ListPostsRequest with UserID 0 lists public posts only.
type ListPostsRequest struct {
	UserID   int64 `json:"user_id"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type ViewPostRequest struct {
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

type LikePostRequest struct {
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
	IsLike bool  `json:"is_like"`
}

type CommentPostRequest struct {
	PostID  int64  `json:"post_id"`
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

type ListCommentsRequest struct {
	PostID   int64 `json:"post_id"`
	UserID   int64 `json:"user_id"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Gateway request bodies.

type CreatePostBody struct {
	Title       string   `json:"title" binding:"required,min=1,max=255"`
	Description string   `json:"description"`
	IsPrivate   bool     `json:"is_private"`
	Tags        []string `json:"tags"`
}

type UpdatePostBody struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	IsPrivate   bool      `json:"is_private"`
	Tags        *[]string `json:"tags"`
}

type LikePostBody struct {
	IsLike *bool `json:"is_like"`
}

type CommentPostBody struct {
	Content string `json:"content" binding:"required,min=1"`
}
