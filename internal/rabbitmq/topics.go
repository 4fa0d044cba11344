package rabbitmq

import "fmt"

type Topic string

const (
	USER_REGISTRATION_TOPIC Topic = "user-registration-events"
	POST_VIEW_TOPIC         Topic = "post-view-events"
	POST_LIKE_TOPIC         Topic = "post-like-events"
	POST_COMMENT_TOPIC      Topic = "post-comment-events"
)

var Topics = []Topic{
	USER_REGISTRATION_TOPIC,
	POST_VIEW_TOPIC,
	POST_LIKE_TOPIC,
	POST_COMMENT_TOPIC,
}

func UserKey(userID int64) string {
	return fmt.Sprintf("%d", userID)
}

// PostUserKey keeps every view/like event of one (post, user) pair on one partition.
func PostUserKey(postID int64, userID int64) string {
	return fmt.Sprintf("%d-%d", postID, userID)
}

func CommentKey(postID int64, userID int64, commentID int64) string {
	return fmt.Sprintf("%d-%d-%d", postID, userID, commentID)
}
