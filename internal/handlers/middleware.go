package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RequestLogger writes one zerolog line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery turns a panic into a response. Routes listed in ackRoutes are
// vendor lifecycle webhooks and still get a 200 acknowledgement.
func Recovery(ackRoutes ...string) gin.HandlerFunc {
	ack := make(map[string]struct{}, len(ackRoutes))
	for _, r := range ackRoutes {
		ack[r] = struct{}{}
	}

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("route", c.FullPath()).Msg("recovered from panic")
				if _, ok := ack[c.FullPath()]; ok {
					c.AbortWithStatusJSON(http.StatusOK, gin.H{"received": true})
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
