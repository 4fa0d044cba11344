package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPostNotFound = errors.New("post not found")

const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	Access(ctx context.Context, id int64) (model.PostAccess, error)
	Update(ctx context.Context, id int64, update model.PostUpdate, updatedAt time.Time) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
	// FindVisible lists posts that are public or owned by viewerID, newest first.
	FindVisible(ctx context.Context, viewerID int64, limit int, offset int) ([]*model.FullPost, int64, error)
	Counts(ctx context.Context, id int64) (model.PostCounts, error)
}

type View interface {
	// Record inserts the (post, user) view once. created reports whether this call inserted it.
	Record(ctx context.Context, view model.View) (created bool, err error)
	Count(ctx context.Context, postID int64) (int64, error)
}

type Like interface {
	Set(ctx context.Context, like model.Like, wantLiked bool) (changed bool, nowLiked bool, err error)
	IsLiked(ctx context.Context, postID int64, userID int64) (bool, error)
	Count(ctx context.Context, postID int64) (int64, error)
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.Comment, int64, error)
	Count(ctx context.Context, postID int64) (int64, error)
}

type PostgresRepository struct {
	Post
	View
	Like
	Comment
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:    newPostRepo(db),
		View:    newViewRepo(db),
		Like:    newLikeRepo(db),
		Comment: newCommentRepo(db),
	}
}
