package postgres

import (
	"context"

	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type viewRepo struct {
	db *pgxpool.Pool
}

func newViewRepo(db *pgxpool.Pool) View {
	return &viewRepo{
		db: db,
	}
}

// Record relies on the (post_id, user_id) primary key: concurrent callers for the
// same key serialize on it and exactly one of them sees a row inserted.
func (r *viewRepo) Record(ctx context.Context, view model.View) (bool, error) {
	tag, err := r.db.Exec(
		ctx,
		"INSERT INTO post_views(post_id, user_id, viewed_at) VALUES($1, $2, $3) ON CONFLICT (post_id, user_id) DO NOTHING",
		view.PostID,
		view.UserID,
		view.ViewedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrPostNotFound
		}
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *viewRepo) Count(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM post_views WHERE post_id = $1", postID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
