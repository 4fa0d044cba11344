package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	errNotAuthorized        = errors.New("user is not authorized")
	errInvalidPostID        = errors.New("invalid post ID")
	errPageAndSizeMustBeInt = errors.New("page and page_size must be int")
	errEngineUnavailable    = errors.New("post service is unavailable")
)

var httpStatusByCode = map[codes.Code]int{
	codes.NotFound:         http.StatusNotFound,
	codes.PermissionDenied: http.StatusForbidden,
	codes.InvalidArgument:  http.StatusBadRequest,
	codes.Unauthenticated:  http.StatusUnauthorized,
	codes.Unavailable:      http.StatusServiceUnavailable,
	codes.DeadlineExceeded: http.StatusGatewayTimeout,
}

// respondEngineError writes the HTTP equivalent of an engine status.
func (h *Handler) respondEngineError(c *gin.Context, err error) {
	st := status.Convert(err)

	httpStatus, ok := httpStatusByCode[st.Code()]
	if !ok {
		httpStatus = http.StatusInternalServerError
	}

	details := st.Message()
	switch st.Code() {
	case codes.Unavailable:
		details = errEngineUnavailable.Error()
	case codes.Internal, codes.Unknown:
		h.logger.Sugar().Errorf("failed to call post service %s: %s", c.FullPath(), err.Error())
	}

	c.JSON(httpStatus, dto.NewBasicResponse(false, details))
}
