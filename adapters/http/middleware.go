package http

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	GinContextKeyRequestID = "requestID"
	GinContextKeySession   = "session"
)

// RequestLogger tags each request with an id and logs it when done.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(GinContextKeyRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status_code", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Warn("Server error", fields...)
		case status >= http.StatusBadRequest:
			log.Info("Client error", fields...)
		default:
			log.Debug("Request handled", fields...)
		}
	}
}

// ErrorMiddleware renders the first error attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err

		if appErr, ok := apperror.As(err); ok {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("Request failed", err,
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(GinContextKeyRequestID)))
				c.AbortWithStatusJSON(status, gin.H{"error": appErr.BaseError.Error(), "message": appErr.Message})
				return
			}
			c.AbortWithStatusJSON(status, appErr.ToJSON())
			return
		}

		log.Error("Unhandled application error", err,
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(GinContextKeyRequestID)))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": apperror.ErrInternal.Error()})
	}
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", RequestIDHeader}
	return cors.New(corsConfig)
}

// AuthMiddleware accepts a bearer token only while its session still exists.
func AuthMiddleware(jwtSvc *auth.JWTService, sessions account.SessionRepository, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, account.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
				return
			}
			log.Error("Failed to load session", err, zap.String("session_id", claims.SessionID.String()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": apperror.ErrInternal.Error()})
			return
		}
		if sess.Account.ID != claims.AccountID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeySession, sess)
		c.Next()
	}
}

func GetSessionFromGinContext(c *gin.Context) (*account.Session, bool) {
	v, ok := c.Get(GinContextKeySession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*account.Session)
	return sess, ok
}
