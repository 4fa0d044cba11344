package postgres

import (
	"context"

	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO comments(post_id, user_id, content, created_at) VALUES($1, $2, $3, $4) RETURNING id",
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.Comment, int64, error) {
	var (
		comments []*model.Comment
		total    int64
	)

	txOptions := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(ctx, r.db, txOptions, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)", postID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrPostNotFound
		}

		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&total); err != nil {
			return err
		}

		rows, err := tx.Query(
			ctx,
			`SELECT
			c.id, c.post_id, c.user_id, c.content, c.created_at
			FROM comments c
			WHERE c.post_id = $1
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $2
			OFFSET $3`,
			postID,
			limit,
			offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var comment model.Comment
			if err := rows.Scan(
				&comment.ID,
				&comment.PostID,
				&comment.UserID,
				&comment.Content,
				&comment.CreatedAt,
			); err != nil {
				return err
			}

			comments = append(comments, &comment)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *commentRepo) Count(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
