package postgres

import (
	"context"
	"errors"

	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type likeRepo struct {
	db *pgxpool.Pool
}

func newLikeRepo(db *pgxpool.Pool) Like {
	return &likeRepo{
		db: db,
	}
}

// Set makes the (post, user) like row present or absent. changed is false when
// the row was already in the wanted state, in which case nothing is written.
func (r *likeRepo) Set(ctx context.Context, like model.Like, wantLiked bool) (bool, bool, error) {
	if wantLiked {
		tag, err := r.db.Exec(
			ctx,
			"INSERT INTO post_likes(post_id, user_id, liked_at) VALUES($1, $2, $3) ON CONFLICT (post_id, user_id) DO NOTHING",
			like.PostID,
			like.UserID,
			like.LikedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, false, ErrPostNotFound
			}
			return false, false, err
		}

		return tag.RowsAffected() == 1, true, nil
	}

	var changed bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// FOR SHARE blocks a concurrent post delete until the unlike commits.
		var id int64
		if err := tx.QueryRow(ctx, "SELECT id FROM posts WHERE id = $1 FOR SHARE", like.PostID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPostNotFound
			}
			return err
		}

		tag, err := tx.Exec(ctx, "DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2", like.PostID, like.UserID)
		if err != nil {
			return err
		}

		changed = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, false, err
	}

	return changed, false, nil
}

func (r *likeRepo) IsLiked(ctx context.Context, postID int64, userID int64) (bool, error) {
	var liked bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)",
		postID,
		userID,
	).Scan(&liked); err != nil {
		return false, err
	}

	return liked, nil
}

func (r *likeRepo) Count(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM post_likes WHERE post_id = $1", postID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
