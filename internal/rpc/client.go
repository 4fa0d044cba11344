package rpc

import (
	"context"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/BloggingApp/post-interaction-service/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var _ PostService = (*Client)(nil)

// Client is the gateway's handle on the engine. Errors are grpc statuses as
// produced by the engine.
type Client struct {
	conn *grpc.ClientConn
}

func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CODEC_NAME)),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		conn: conn,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func invoke[Resp any](ctx context.Context, conn *grpc.ClientConn, method string, in interface{}) (*Resp, error) {
	out := new(Resp)
	if err := conn.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	return invoke[dto.PostResponse](ctx, c.conn, "CreatePost", req)
}

func (c *Client) GetPost(ctx context.Context, req *dto.GetPostRequest) (*dto.PostResponse, error) {
	return invoke[dto.PostResponse](ctx, c.conn, "GetPost", req)
}

func (c *Client) UpdatePost(ctx context.Context, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	return invoke[dto.PostResponse](ctx, c.conn, "UpdatePost", req)
}

func (c *Client) DeletePost(ctx context.Context, req *dto.DeletePostRequest) (*dto.Empty, error) {
	return invoke[dto.Empty](ctx, c.conn, "DeletePost", req)
}

func (c *Client) ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*dto.Page[dto.PostResponse], error) {
	return invoke[dto.Page[dto.PostResponse]](ctx, c.conn, "ListPosts", req)
}

func (c *Client) ViewPost(ctx context.Context, req *dto.ViewPostRequest) (*dto.ViewPostResponse, error) {
	return invoke[dto.ViewPostResponse](ctx, c.conn, "ViewPost", req)
}

func (c *Client) LikePost(ctx context.Context, req *dto.LikePostRequest) (*dto.LikePostResponse, error) {
	return invoke[dto.LikePostResponse](ctx, c.conn, "LikePost", req)
}

func (c *Client) CommentPost(ctx context.Context, req *dto.CommentPostRequest) (*model.Comment, error) {
	return invoke[model.Comment](ctx, c.conn, "CommentPost", req)
}

func (c *Client) ListComments(ctx context.Context, req *dto.ListCommentsRequest) (*dto.Page[model.Comment], error) {
	return invoke[dto.Page[model.Comment]](ctx, c.conn, "ListComments", req)
}
