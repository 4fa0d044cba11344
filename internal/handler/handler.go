package handler

import (
	"net/http"

	"github.com/BloggingApp/post-interaction-service/internal/rpc"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Handler struct {
	logger       *zap.Logger
	engine       rpc.PostService
	accessSecret []byte
}

func New(logger *zap.Logger, engine rpc.PostService, accessSecret []byte) *Handler {
	return &Handler{
		logger:       logger,
		engine:       engine,
		accessSecret: accessSecret,
	}
}

// corsConfig allows credentials only for a concrete origin; browsers reject
// credentialed responses to a wildcard.
func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = []string{origin}
	cfg.AllowCredentials = true
	return cfg
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.requestIDMiddleware)
	r.Use(cors.New(corsConfig(viper.GetString("client.origin"))))

	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("", h.notRequiredAuthMiddleware, h.postsList)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.PUT("", h.authMiddleware, h.postsUpdate)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/view", h.authMiddleware, h.postsView)
				post.POST("/like", h.authMiddleware, h.postsLike)

				post.POST("/comments", h.authMiddleware, h.commentsCreate)
				post.GET("/comments", h.notRequiredAuthMiddleware, h.commentsGet)
			}
		}
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
