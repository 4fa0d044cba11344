package service

import (
	"context"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/BloggingApp/post-interaction-service/internal/rabbitmq"
	"github.com/BloggingApp/post-interaction-service/internal/repository"
	"go.uber.org/zap"
)

// Publisher is the best-effort event sink. Publish reports whether the broker acknowledged.
type Publisher interface {
	Publish(ctx context.Context, topic rabbitmq.Topic, key string, payload interface{}) bool
}

type Post interface {
	Create(ctx context.Context, req dto.CreatePostRequest) (*dto.PostResponse, error)
	Get(ctx context.Context, req dto.GetPostRequest) (*dto.PostResponse, error)
	Update(ctx context.Context, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	Delete(ctx context.Context, req dto.DeletePostRequest) error
	List(ctx context.Context, req dto.ListPostsRequest) (*dto.Page[dto.PostResponse], error)
	View(ctx context.Context, req dto.ViewPostRequest) (*dto.ViewPostResponse, error)
	Like(ctx context.Context, req dto.LikePostRequest) (*dto.LikePostResponse, error)
}

type Comment interface {
	Create(ctx context.Context, req dto.CommentPostRequest) (*model.Comment, error)
	List(ctx context.Context, req dto.ListCommentsRequest) (*dto.Page[model.Comment], error)
}

type Options struct {
	PostTTL time.Duration
}

type Service struct {
	Post
	Comment
}

func New(logger *zap.Logger, repo *repository.Repository, publisher Publisher, opts Options) *Service {
	posts := newPostCache(logger, repo, opts.PostTTL)
	clock := func() time.Time { return time.Now().UTC() }

	return &Service{
		Post:    newPostService(logger, repo, publisher, posts, clock),
		Comment: newCommentService(logger, repo, publisher, posts, clock),
	}
}
