package dto

import "time"

type MQUserRegistrationMsg struct {
	UserID           int64     `json:"user_id"`
	RegistrationDate time.Time `json:"registration_date"`
}

type MQPostViewMsg struct {
	UserID   int64     `json:"user_id"`
	PostID   int64     `json:"post_id"`
	ViewDate time.Time `json:"view_date"`
}

type MQPostLikeMsg struct {
	UserID   int64     `json:"user_id"`
	PostID   int64     `json:"post_id"`
	LikeDate time.Time `json:"like_date"`
	IsLike   bool      `json:"is_like"`
}

type MQPostCommentMsg struct {
	UserID      int64     `json:"user_id"`
	PostID      int64     `json:"post_id"`
	CommentID   int64     `json:"comment_id"`
	CommentDate time.Time `json:"comment_date"`
}

func NewMQUserRegistrationMsg(userID int64, at time.Time) MQUserRegistrationMsg {
	return MQUserRegistrationMsg{UserID: userID, RegistrationDate: at.UTC()}
}
