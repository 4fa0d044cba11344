package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/BloggingApp/post-interaction-service/internal/repository"
	"github.com/BloggingApp/post-interaction-service/internal/repository/postgres"
	"github.com/BloggingApp/post-interaction-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// postCache loads post rows through redis. Counts are never cached, and a
// redis failure only costs a trip to postgres.
type postCache struct {
	logger *zap.Logger
	repo   *repository.Repository
	ttl    time.Duration
}

func newPostCache(logger *zap.Logger, repo *repository.Repository, ttl time.Duration) *postCache {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &postCache{
		logger: logger,
		repo:   repo,
		ttl:    ttl,
	}
}

// find returns the post row. A cached copy is served only when its updated_at
// matches postgres, and creator_id/is_private are always taken from postgres.
func (c *postCache) find(ctx context.Context, id int64) (*model.Post, error) {
	if c.repo.Redis == nil {
		return c.load(ctx, id)
	}

	access, err := c.repo.Postgres.Post.Access(ctx, id)
	if err != nil {
		return nil, c.findError(id, err)
	}

	cachedPost, err := redisrepo.Get[model.Post](c.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err != nil && err != redis.Nil {
		c.logger.Sugar().Errorf("failed to get post(%d) from redis: %s", id, err.Error())
	}
	if err == nil && cachedPost != nil && cachedPost.UpdatedAt.Equal(access.UpdatedAt) {
		cachedPost.CreatorID = access.CreatorID
		cachedPost.IsPrivate = access.IsPrivate
		return cachedPost, nil
	}

	post, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, post)

	return post, nil
}

func (c *postCache) load(ctx context.Context, id int64) (*model.Post, error) {
	post, err := c.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		return nil, c.findError(id, err)
	}

	return post, nil
}

func (c *postCache) findError(id int64, err error) error {
	if errors.Is(err, postgres.ErrPostNotFound) {
		return ErrPostNotFound
	}
	c.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", id, err.Error())
	return ErrInternal
}

func (c *postCache) store(ctx context.Context, post *model.Post) {
	if c.repo.Redis == nil {
		return
	}

	if err := c.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(post.ID), post, c.ttl); err != nil {
		c.logger.Sugar().Errorf("failed to set post(%d) in redis: %s", post.ID, err.Error())
	}
}

func (c *postCache) invalidate(ctx context.Context, id int64) {
	if c.repo.Redis == nil {
		return
	}

	if err := c.repo.Redis.Default.Del(ctx, redisrepo.PostKey(id)).Err(); err != nil {
		c.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", id, err.Error())
	}
}
