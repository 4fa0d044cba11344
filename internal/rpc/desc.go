package rpc

import (
	"context"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/BloggingApp/post-interaction-service/internal/model"
	"google.golang.org/grpc"
)

const SERVICE_NAME = "post.PostService"

// PostService is the engine's RPC surface. Server implements it on top of the
// service layer and Client implements it over a grpc connection.
type PostService interface {
	CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, req *dto.GetPostRequest) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, req *dto.DeletePostRequest) (*dto.Empty, error)
	ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*dto.Page[dto.PostResponse], error)
	ViewPost(ctx context.Context, req *dto.ViewPostRequest) (*dto.ViewPostResponse, error)
	LikePost(ctx context.Context, req *dto.LikePostRequest) (*dto.LikePostResponse, error)
	CommentPost(ctx context.Context, req *dto.CommentPostRequest) (*model.Comment, error)
	ListComments(ctx context.Context, req *dto.ListCommentsRequest) (*dto.Page[model.Comment], error)
}

var PostService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SERVICE_NAME,
	HandlerType: (*PostService)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreatePost", PostService.CreatePost),
		unaryMethod("GetPost", PostService.GetPost),
		unaryMethod("UpdatePost", PostService.UpdatePost),
		unaryMethod("DeletePost", PostService.DeletePost),
		unaryMethod("ListPosts", PostService.ListPosts),
		unaryMethod("ViewPost", PostService.ViewPost),
		unaryMethod("LikePost", PostService.LikePost),
		unaryMethod("CommentPost", PostService.CommentPost),
		unaryMethod("ListComments", PostService.ListComments),
	},
	Streams: []grpc.StreamDesc{},
}

func fullMethod(method string) string {
	return "/" + SERVICE_NAME + "/" + method
}

func unaryMethod[Req any, Resp any](method string, call func(PostService, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PostService), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PostService), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
