package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"github.com/BloggingApp/post-interaction-service/internal/config"
	"github.com/BloggingApp/post-interaction-service/internal/rabbitmq"
	"github.com/BloggingApp/post-interaction-service/internal/repository"
	"github.com/BloggingApp/post-interaction-service/internal/repository/postgres"
	"github.com/BloggingApp/post-interaction-service/internal/rpc"
	"github.com/BloggingApp/post-interaction-service/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger, _ := zap.NewProduction()

	if err := config.LoadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := config.InitConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	if config.IsDev() {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	dbConfig := config.DB()
	db, err := postgres.DB(ctx, dbConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	if err := postgres.Migrate(dbConfig.DSN()); err != nil {
		logger.Sugar().Panicf("failed to apply migrations: %s", err.Error())
	}
	logger.Info("Database schema is up to date")

	redisConfig := config.Redis()
	var rdb *redis.Client
	if redisConfig.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: redisConfig.Addr,
		})
		defer rdb.Close()

		pong, err := rdb.Ping(ctx).Result()
		if err != nil {
			logger.Sugar().Warnf("failed to ping redis, posts will be read from postgres until it recovers: %s", err.Error())
		} else {
			logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
		}
	} else {
		logger.Warn("REDIS_ADDR is not set, post cache disabled")
	}

	mq, err := rabbitmq.New(config.RabbitMQ(), logger)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
	}
	defer mq.Close()
	logger.Info("Successfully connected to RabbitMQ")

	repos := repository.New(db, rdb)
	services := service.New(logger, repos, mq, service.Options{PostTTL: redisConfig.PostTTL})
	grpcServer, healthServer := rpc.NewGRPCServer(logger, services)

	grpcPort := config.GRPC().Port
	lis, err := net.Listen("tcp", ":"+grpcPort)
	if err != nil {
		logger.Sugar().Panicf("failed to listen on gRPC port %s: %s", grpcPort, err.Error())
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Sugar().Infof("gRPC server listening on port %s", grpcPort)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Server shutting down")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Sugar().Errorf("gRPC server stopped: %s", err.Error())
	}
}
