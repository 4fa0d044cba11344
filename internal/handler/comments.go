package handler

import (
	"net/http"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var input dto.CommentPostBody
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdComment, err := h.engine.CommentPost(c.Request.Context(), &dto.CommentPostRequest{
		PostID:  postID,
		UserID:  userID,
		Content: input.Content,
	})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdComment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	page, pageSize, ok := pageQuery(c)
	if !ok {
		return
	}

	comments, err := h.engine.ListComments(c.Request.Context(), &dto.ListCommentsRequest{
		PostID:   postID,
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}
