package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/config"
	"github.com/BloggingApp/post-interaction-service/internal/handler"
	"github.com/BloggingApp/post-interaction-service/internal/rpc"
	"github.com/BloggingApp/post-interaction-service/internal/server"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

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
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	defer logger.Sync()

	accessSecret := config.AccessSecret()
	if len(accessSecret) == 0 {
		logger.Panic("ACCESS_SECRET is not set")
	}

	engineAddr := config.EngineAddr()
	engine, err := rpc.Dial(engineAddr)
	if err != nil {
		logger.Sugar().Panicf("failed to create post service client for %s: %s", engineAddr, err.Error())
	}
	defer engine.Close()

	handlers := handler.New(logger, engine, accessSecret)
	srv := server.New(config.Server(handlers.InitRoutes()))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Sugar().Infof("Gateway started, post service at %s", engineAddr)
		return srv.Run()
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Sugar().Errorf("failed to run http server: %s", err.Error())
	}
}
