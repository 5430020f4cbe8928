package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
)

const (
	headerRequestID = "X-Request-ID"
	sessionCookie   = "session_token"
	ctxUser         = "user"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Header(headerRequestID, rid)
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

func accessLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Info()
		if status >= http.StatusInternalServerError {
			ev = logger.Error()
		}
		ev.Str("request_id", common.RequestIDFromContext(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Msg("http.request")
	}
}

func recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.Error().
			Str("request_id", common.RequestIDFromContext(c.Request.Context())).
			Interface("panic", rec).
			Msg("http.panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	})
}

// sessionToken reads the session cookie, falling back to a bearer header.
func sessionToken(c *gin.Context) string {
	if tok, err := c.Cookie(sessionCookie); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func (a *API) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := a.svc.Auth.Authenticate(c.Request.Context(), sessionToken(c))
		if err != nil {
			a.fail(c, err)
			c.Abort()
			return
		}
		c.Set(ctxUser, u)
		c.Request = c.Request.WithContext(common.WithUserID(c.Request.Context(), u.ID))
		c.Next()
	}
}

func currentUser(c *gin.Context) *entity.User {
	return c.MustGet(ctxUser).(*entity.User)
}

// fail renders err as {"detail": ...} with the mapped status.
func (a *API) fail(c *gin.Context, err error) {
	status := common.HTTPStatus(err)
	log := a.logger.With().Str("request_id", common.RequestIDFromContext(c.Request.Context())).Logger()
	switch {
	case status >= http.StatusInternalServerError:
		log.Error().Err(err).Int("status", status).Msg("http.error")
	case errors.Is(err, common.ErrUnauthorized):
		log.Debug().Err(err).Msg("http.unauthenticated")
	default:
		log.Info().Err(err).Int("status", status).Msg("http.rejected")
	}
	c.JSON(status, gin.H{"detail": common.PublicMessage(err)})
}
