package service

import "github.com/BloggingApp/post-interaction-service/internal/model"

// canRead: public posts are readable by anyone, private ones only by their creator.
// userID 0 is an anonymous requester.
func canRead(post *model.Post, userID int64) bool {
	return !post.IsPrivate || canWrite(post, userID)
}

// canWrite: only the creator mutates or deletes a post.
func canWrite(post *model.Post, userID int64) bool {
	return userID > 0 && post.CreatorID == userID
}
