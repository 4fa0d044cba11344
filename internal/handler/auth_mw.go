package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/BloggingApp/post-interaction-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	USER_ID_CTX_KEY   = "user-id"
	REQUEST_ID_HEADER = "X-Request-ID"
)

var errInvalidUserIDClaim = errors.New("token has no valid user id")

func (h *Handler) authMiddleware(c *gin.Context) {
	userID, err := h.userIDFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set(USER_ID_CTX_KEY, userID)

	c.Next()
}

// notRequiredAuthMiddleware resolves the caller when a valid token is present and
// otherwise lets the request through as anonymous.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	userID, err := h.userIDFromRequest(c)
	if err != nil {
		c.Next()
		return
	}

	c.Set(USER_ID_CTX_KEY, userID)

	c.Next()
}

func (h *Handler) userIDFromRequest(c *gin.Context) (int64, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, errNotAuthorized
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if accessToken == "" {
		return 0, errNotAuthorized
	}

	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil || claims == nil {
		return 0, errNotAuthorized
	}

	return userIDFromClaims(claims)
}

// userIDFromClaims reads the "id" claim, which may be a JSON number or a decimal string.
func userIDFromClaims(claims jwt.MapClaims) (int64, error) {
	var id int64
	switch v := claims["id"].(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, errInvalidUserIDClaim
		}
		id = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", errInvalidUserIDClaim, err.Error())
		}
		id = parsed
	default:
		return 0, errInvalidUserIDClaim
	}

	if id <= 0 {
		return 0, errInvalidUserIDClaim
	}
	return id, nil
}

// getUserIDFromRequest returns 0 for anonymous callers.
func (h *Handler) getUserIDFromRequest(c *gin.Context) int64 {
	return c.GetInt64(USER_ID_CTX_KEY)
}

func (h *Handler) requestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(REQUEST_ID_HEADER)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header(REQUEST_ID_HEADER, requestID)

	c.Next()
}
