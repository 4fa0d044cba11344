package repository

import (
	"github.com/BloggingApp/post-interaction-service/internal/repository/postgres"
	"github.com/BloggingApp/post-interaction-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	Postgres *postgres.PostgresRepository
	Redis    *redisrepo.RedisRepository
}

// New wires the stores. A nil rdb disables the post cache.
func New(db *pgxpool.Pool, rdb *redis.Client) *Repository {
	repo := &Repository{
		Postgres: postgres.New(db),
	}
	if rdb != nil {
		repo.Redis = redisrepo.New(rdb)
	}
	return repo
}
