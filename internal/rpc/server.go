package rpc

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/BloggingApp/post-interaction-service/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

var _ PostService = (*Server)(nil)

type Server struct {
	services *service.Service
}

func NewServer(services *service.Service) *Server {
	return &Server{
		services: services,
	}
}

// NewGRPCServer builds the engine's grpc server with the post service and the
// standard health service registered.
func NewGRPCServer(logger *zap.Logger, services *service.Service) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		recoveryInterceptor(logger),
		loggingInterceptor(logger),
	))
	srv.RegisterService(&PostService_ServiceDesc, NewServer(services))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(SERVICE_NAME, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	return srv, healthSrv
}

func (s *Server) CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	post, err := s.services.Post.Create(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return post, nil
}

func (s *Server) GetPost(ctx context.Context, req *dto.GetPostRequest) (*dto.PostResponse, error) {
	post, err := s.services.Post.Get(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return post, nil
}

func (s *Server) UpdatePost(ctx context.Context, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.services.Post.Update(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return post, nil
}

func (s *Server) DeletePost(ctx context.Context, req *dto.DeletePostRequest) (*dto.Empty, error) {
	if err := s.services.Post.Delete(ctx, *req); err != nil {
		return nil, toStatus(err)
	}
	return &dto.Empty{}, nil
}

func (s *Server) ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*dto.Page[dto.PostResponse], error) {
	page, err := s.services.Post.List(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return page, nil
}

func (s *Server) ViewPost(ctx context.Context, req *dto.ViewPostRequest) (*dto.ViewPostResponse, error) {
	resp, err := s.services.Post.View(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func (s *Server) LikePost(ctx context.Context, req *dto.LikePostRequest) (*dto.LikePostResponse, error) {
	resp, err := s.services.Post.Like(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func (s *Server) CommentPost(ctx context.Context, req *dto.CommentPostRequest) (*model.Comment, error) {
	comment, err := s.services.Comment.Create(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return comment, nil
}

func (s *Server) ListComments(ctx context.Context, req *dto.ListCommentsRequest) (*dto.Page[model.Comment], error) {
	page, err := s.services.Comment.List(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return page, nil
}

// toStatus maps the service error taxonomy onto grpc codes. Anything unclassified
// is reported as Internal without its details.
func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, service.ErrInternal.Error())
	}
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc handled", fields...)
		}

		return resp, err
	}
}

func recoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Sugar().Errorf("panic in %s: %v", info.FullMethod, r)
				err = status.Error(codes.Internal, service.ErrInternal.Error())
			}
		}()
		return handler(ctx, req)
	}
}
