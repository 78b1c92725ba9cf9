package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

const requestIDKey = "request.id"

func GetRequestID(c *gin.Context) string {
	requestID, ok := c.Get(requestIDKey)
	if ok {
		return requestID.(string)
	}
	return ""
}

func NewRequestIDMiddleware() gin.HandlerFunc {
	return requestIDMiddleware{}.build()
}

type requestIDMiddleware struct {
}

func (r requestIDMiddleware) build() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}
