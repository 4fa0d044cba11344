package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `p.id, p.title, p.description, p.creator_id, p.is_private, p.tags, p.created_at, p.updated_at`

const countColumns = `
	(SELECT COUNT(*) FROM post_views v WHERE v.post_id = p.id),
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)`

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func scanPost(row pgx.Row, extra ...any) (*model.Post, error) {
	var post model.Post
	dest := append([]any{
		&post.ID,
		&post.Title,
		&post.Description,
		&post.CreatorID,
		&post.IsPrivate,
		&post.Tags,
		&post.CreatedAt,
		&post.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}

	created, err := scanPost(r.db.QueryRow(
		ctx,
		`INSERT INTO posts AS p (title, description, creator_id, is_private, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		post.Title,
		post.Description,
		post.CreatorID,
		post.IsPrivate,
		post.Tags,
		post.CreatedAt,
		post.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *postRepo) Access(ctx context.Context, id int64) (model.PostAccess, error) {
	var access model.PostAccess
	if err := r.db.QueryRow(
		ctx,
		`SELECT creator_id, is_private, updated_at FROM posts WHERE id = $1`,
		id,
	).Scan(&access.CreatorID, &access.IsPrivate, &access.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PostAccess{}, ErrPostNotFound
		}
		return model.PostAccess{}, err
	}

	return access, nil
}

func (r *postRepo) Update(ctx context.Context, id int64, update model.PostUpdate, updatedAt time.Time) (*model.Post, error) {
	var tags []string
	if update.Tags != nil {
		tags = *update.Tags
		if tags == nil {
			tags = []string{}
		}
	}

	// NULL parameters keep the stored value.
	post, err := scanPost(r.db.QueryRow(
		ctx,
		`UPDATE posts p SET
		title = COALESCE($2, p.title),
		description = COALESCE($3, p.description),
		is_private = $4,
		tags = COALESCE($5, p.tags),
		updated_at = $6
		WHERE p.id = $1
		RETURNING `+postColumns,
		id,
		update.Title,
		update.Description,
		update.IsPrivate,
		tags,
		updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// Delete removes the post. Views, likes and comments go with it through ON DELETE CASCADE.
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *postRepo) FindVisible(ctx context.Context, viewerID int64, limit int, offset int) ([]*model.FullPost, int64, error) {
	var (
		posts []*model.FullPost
		total int64
	)

	txOptions := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(ctx, r.db, txOptions, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			"SELECT COUNT(*) FROM posts p WHERE p.is_private = FALSE OR p.creator_id = $1",
			viewerID,
		).Scan(&total); err != nil {
			return err
		}

		rows, err := tx.Query(
			ctx,
			`SELECT `+postColumns+`,`+countColumns+`
			FROM posts p
			WHERE p.is_private = FALSE OR p.creator_id = $1
			ORDER BY p.created_at DESC, p.id DESC
			LIMIT $2
			OFFSET $3`,
			viewerID,
			limit,
			offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var counts model.PostCounts
			post, err := scanPost(rows, &counts.Views, &counts.Likes, &counts.Comments)
			if err != nil {
				return err
			}

			posts = append(posts, &model.FullPost{Post: *post, Counts: counts})
		}

		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepo) Counts(ctx context.Context, id int64) (model.PostCounts, error) {
	var counts model.PostCounts
	if err := r.db.QueryRow(
		ctx,
		`SELECT`+countColumns+` FROM posts p WHERE p.id = $1`,
		id,
	).Scan(&counts.Views, &counts.Likes, &counts.Comments); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PostCounts{}, ErrPostNotFound
		}
		return model.PostCounts{}, err
	}

	return counts, nil
}
