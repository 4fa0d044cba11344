package service

import (
	"context"
	"strings"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/BloggingApp/post-interaction-service/internal/rabbitmq"
	"github.com/BloggingApp/post-interaction-service/internal/repository"
	"go.uber.org/zap"
)

type commentService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher Publisher
	posts     *postCache
	clock     func() time.Time
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, publisher Publisher, posts *postCache, clock func() time.Time) Comment {
	return &commentService{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		posts:     posts,
		clock:     clock,
	}
}

// Create always writes a new comment and always publishes: comments are not deduplicated.
func (s *commentService) Create(ctx context.Context, req dto.CommentPostRequest) (*model.Comment, error) {
	if err := validateID(req.PostID, req.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	if _, err := readablePost(ctx, s.posts, req.PostID, req.UserID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		PostID:    req.PostID,
		UserID:    req.UserID,
		Content:   req.Content,
		CreatedAt: s.clock(),
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		return nil, storeError(ctx, s.logger, s.posts, req.PostID, "comment on", err)
	}

	msg := dto.MQPostCommentMsg{
		UserID:      createdComment.UserID,
		PostID:      createdComment.PostID,
		CommentID:   createdComment.ID,
		CommentDate: createdComment.CreatedAt,
	}
	key := rabbitmq.CommentKey(createdComment.PostID, createdComment.UserID, createdComment.ID)
	if !s.publisher.Publish(ctx, rabbitmq.POST_COMMENT_TOPIC, key, msg) {
		s.logger.Sugar().Warnf("comment(%d) on post(%d) committed but its event was not published", createdComment.ID, req.PostID)
	}

	return createdComment, nil
}

// List applies the same read rule as fetching the post itself, so a private
// post's comments are visible only to its creator.
func (s *commentService) List(ctx context.Context, req dto.ListCommentsRequest) (*dto.Page[model.Comment], error) {
	if err := validateID(req.PostID); err != nil {
		return nil, err
	}
	if err := validateRequester(req.UserID); err != nil {
		return nil, err
	}

	if _, err := readablePost(ctx, s.posts, req.PostID, req.UserID); err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)

	comments, total, err := s.repo.Postgres.Comment.FindPostComments(ctx, req.PostID, pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, storeError(ctx, s.logger, s.posts, req.PostID, "list comments of", err)
	}

	items := make([]model.Comment, 0, len(comments))
	for _, comment := range comments {
		items = append(items, *comment)
	}

	return &dto.Page[model.Comment]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
