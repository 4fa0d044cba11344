package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) postsCreate(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	var input dto.CreatePostBody
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.engine.CreatePost(c.Request.Context(), &dto.CreatePostRequest{
		Title:       input.Title,
		Description: input.Description,
		CreatorID:   userID,
		IsPrivate:   input.IsPrivate,
		Tags:        input.Tags,
	})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdPost)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := h.engine.GetPost(c.Request.Context(), &dto.GetPostRequest{ID: postID, UserID: userID})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsList(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	posts, err := h.engine.ListPosts(c.Request.Context(), &dto.ListPostsRequest{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdatePostBody
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	updatedPost, err := h.engine.UpdatePost(c.Request.Context(), &dto.UpdatePostRequest{
		ID:          postID,
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		IsPrivate:   input.IsPrivate,
		Tags:        input.Tags,
	})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedPost)
}

func (h *Handler) postsDelete(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if _, err := h.engine.DeletePost(c.Request.Context(), &dto.DeletePostRequest{ID: postID, UserID: userID}); err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsView(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	resp, err := h.engine.ViewPost(c.Request.Context(), &dto.ViewPostRequest{PostID: postID, UserID: userID})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// postsLike likes the post unless the body says {"is_like": false}. An empty body likes.
func (h *Handler) postsLike(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var input dto.LikePostBody
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}
	isLike := input.IsLike == nil || *input.IsLike

	resp, err := h.engine.LikePost(c.Request.Context(), &dto.LikePostRequest{PostID: postID, UserID: userID, IsLike: isLike})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func postIDParam(c *gin.Context) (int64, bool) {
	postIDString := strings.TrimSpace(c.Param("postID"))
	postID, err := strconv.ParseInt(postIDString, 10, 64)
	if err != nil || postID <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return 0, false
	}
	return postID, true
}

// pageQuery reads page and page_size; absent values fall back to the first page of DEFAULT_PAGE_SIZE.
func pageQuery(c *gin.Context) (int, int, bool) {
	page, err0 := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, err1 := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(dto.DEFAULT_PAGE_SIZE)))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errPageAndSizeMustBeInt.Error()))
		return 0, 0, false
	}
	return page, pageSize, true
}
