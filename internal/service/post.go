package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/BloggingApp/post-interaction-service/internal/rabbitmq"
	"github.com/BloggingApp/post-interaction-service/internal/repository"
	"github.com/BloggingApp/post-interaction-service/internal/repository/postgres"
	"go.uber.org/zap"
)

type postService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher Publisher
	posts     *postCache
	clock     func() time.Time
}

func newPostService(logger *zap.Logger, repo *repository.Repository, publisher Publisher, posts *postCache, clock func() time.Time) Post {
	return &postService{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		posts:     posts,
		clock:     clock,
	}
}

func (s *postService) Create(ctx context.Context, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	if err := validateID(req.CreatorID); err != nil {
		return nil, err
	}
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	now := s.clock()
	post := model.Post{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   req.CreatorID,
		IsPrivate:   req.IsPrivate,
		Tags:        normalizeTags(req.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%d) post: %s", req.CreatorID, err.Error())
		return nil, ErrInternal
	}

	return &dto.PostResponse{Post: *createdPost}, nil
}

func (s *postService) Get(ctx context.Context, req dto.GetPostRequest) (*dto.PostResponse, error) {
	if err := validateID(req.ID); err != nil {
		return nil, err
	}
	if err := validateRequester(req.UserID); err != nil {
		return nil, err
	}

	post, err := s.posts.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if !canRead(post, req.UserID) {
		return nil, ErrPermissionDenied
	}

	resp, err := s.withCounts(ctx, post)
	if err != nil {
		return nil, err
	}

	if req.UserID > 0 {
		isLiked, err := s.repo.Postgres.Like.IsLiked(ctx, post.ID, req.UserID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to check if user(%d) liked post(%d): %s", req.UserID, post.ID, err.Error())
			return nil, ErrInternal
		}
		resp.IsLiked = &isLiked
	}

	return resp, nil
}

func (s *postService) withCounts(ctx context.Context, post *model.Post) (*dto.PostResponse, error) {
	counts, err := s.repo.Postgres.Post.Counts(ctx, post.ID)
	if err != nil {
		return nil, s.storeError(ctx, post.ID, "count engagements of", err)
	}

	return &dto.PostResponse{Post: *post, PostCounts: counts}, nil
}

func (s *postService) Update(ctx context.Context, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	if err := validateID(req.ID, req.UserID); err != nil {
		return nil, err
	}
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
	}

	post, err := s.posts.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if !canWrite(post, req.UserID) {
		return nil, ErrPermissionDenied
	}

	update := model.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	}
	if req.Tags != nil {
		tags := normalizeTags(*req.Tags)
		update.Tags = &tags
	}

	updatedPost, err := s.repo.Postgres.Post.Update(ctx, req.ID, update, s.clock())
	if err != nil {
		return nil, s.storeError(ctx, req.ID, "update", err)
	}

	s.posts.invalidate(ctx, req.ID)

	return s.withCounts(ctx, updatedPost)
}

func (s *postService) Delete(ctx context.Context, req dto.DeletePostRequest) error {
	if err := validateID(req.ID, req.UserID); err != nil {
		return err
	}

	post, err := s.posts.find(ctx, req.ID)
	if err != nil {
		return err
	}

	if !canWrite(post, req.UserID) {
		return ErrPermissionDenied
	}

	if err := s.repo.Postgres.Post.Delete(ctx, req.ID); err != nil {
		return s.storeError(ctx, req.ID, "delete", err)
	}

	s.posts.invalidate(ctx, req.ID)

	return nil
}

func (s *postService) List(ctx context.Context, req dto.ListPostsRequest) (*dto.Page[dto.PostResponse], error) {
	if err := validateRequester(req.UserID); err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)

	posts, total, err := s.repo.Postgres.Post.FindVisible(ctx, req.UserID, pageSize, pageOffset(page, pageSize))
	if err != nil {
		s.logger.Sugar().Errorf("failed to list posts visible to user(%d): %s", req.UserID, err.Error())
		return nil, ErrInternal
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		items = append(items, dto.PostResponse{Post: post.Post, PostCounts: post.Counts})
	}

	return &dto.Page[dto.PostResponse]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *postService) View(ctx context.Context, req dto.ViewPostRequest) (*dto.ViewPostResponse, error) {
	if err := validateID(req.PostID, req.UserID); err != nil {
		return nil, err
	}

	if _, err := s.readablePost(ctx, req.PostID, req.UserID); err != nil {
		return nil, err
	}

	viewedAt := s.clock()
	created, err := s.repo.Postgres.View.Record(ctx, model.View{
		PostID:   req.PostID,
		UserID:   req.UserID,
		ViewedAt: viewedAt,
	})
	if err != nil {
		return nil, s.storeError(ctx, req.PostID, "record view of", err)
	}

	if created {
		msg := dto.MQPostViewMsg{
			UserID:   req.UserID,
			PostID:   req.PostID,
			ViewDate: viewedAt,
		}
		if !s.publisher.Publish(ctx, rabbitmq.POST_VIEW_TOPIC, rabbitmq.PostUserKey(req.PostID, req.UserID), msg) {
			s.logger.Sugar().Warnf("view of post(%d) by user(%d) committed but its event was not published", req.PostID, req.UserID)
		}
	}

	views, err := s.repo.Postgres.View.Count(ctx, req.PostID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count views of post(%d): %s", req.PostID, err.Error())
		return nil, ErrInternal
	}

	return &dto.ViewPostResponse{Success: true, ViewsCount: views}, nil
}

func (s *postService) Like(ctx context.Context, req dto.LikePostRequest) (*dto.LikePostResponse, error) {
	if err := validateID(req.PostID, req.UserID); err != nil {
		return nil, err
	}

	if _, err := s.readablePost(ctx, req.PostID, req.UserID); err != nil {
		return nil, err
	}

	likedAt := s.clock()
	like := model.Like{
		PostID:  req.PostID,
		UserID:  req.UserID,
		LikedAt: likedAt,
	}
	changed, isLiked, err := s.repo.Postgres.Like.Set(ctx, like, req.IsLike)
	if err != nil {
		return nil, s.storeError(ctx, req.PostID, "set like on", err)
	}

	if changed {
		msg := dto.MQPostLikeMsg{
			UserID:   req.UserID,
			PostID:   req.PostID,
			LikeDate: likedAt,
			IsLike:   isLiked,
		}
		if !s.publisher.Publish(ctx, rabbitmq.POST_LIKE_TOPIC, rabbitmq.PostUserKey(req.PostID, req.UserID), msg) {
			s.logger.Sugar().Warnf("like(%t) of post(%d) by user(%d) committed but its event was not published", isLiked, req.PostID, req.UserID)
		}
	}

	likes, err := s.repo.Postgres.Like.Count(ctx, req.PostID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count likes of post(%d): %s", req.PostID, err.Error())
		return nil, ErrInternal
	}

	return &dto.LikePostResponse{Success: true, LikesCount: likes, IsLiked: isLiked}, nil
}

func (s *postService) readablePost(ctx context.Context, postID int64, userID int64) (*model.Post, error) {
	return readablePost(ctx, s.posts, postID, userID)
}

func (s *postService) storeError(ctx context.Context, postID int64, action string, err error) error {
	return storeError(ctx, s.logger, s.posts, postID, action, err)
}

func readablePost(ctx context.Context, posts *postCache, postID int64, userID int64) (*model.Post, error) {
	post, err := posts.find(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !canRead(post, userID) {
		return nil, ErrPermissionDenied
	}

	return post, nil
}

// storeError classifies a store failure on a post-scoped operation. A post that
// vanished between lookup and write is dropped from the cache.
func storeError(ctx context.Context, logger *zap.Logger, posts *postCache, postID int64, action string, err error) error {
	if errors.Is(err, postgres.ErrPostNotFound) {
		posts.invalidate(ctx, postID)
		return ErrPostNotFound
	}

	logger.Sugar().Errorf("failed to %s post(%d): %s", action, postID, err.Error())
	return ErrInternal
}
