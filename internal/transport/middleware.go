package transport

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go-land-inspector/internal/logger"
	"go-land-inspector/internal/observer"
	"go-land-inspector/pkg/models"
	"go-land-inspector/pkg/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	uploadKey       = "upload"

	// imageField is the multipart field carrying the image.
	imageField = "image"

	// multipartOverhead is the body allowance on top of the image size limit
	// for boundaries, part headers and the coordinate fields.
	multipartOverhead = 1 << 20
)

// requestID tags every request with an ID, reusing the caller's when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request once the handler chain finished.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"request_id":  c.GetString(requestIDKey),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		entry := logger.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request completed")
		}
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// recovery turns a panic into the generic 500 body.
func recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   msgInternal,
			Details: "unexpected server error",
		})
	})
}

// uploadGuard rejects requests without a usable image before the analyze
// handler runs. The accepted file header is stored under uploadKey.
func uploadGuard(v *validation.UploadValidator, metrics *observer.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, v.MaxSize()+multipartOverhead)

		fh, err := c.FormFile(imageField)
		if err != nil {
			if isBodyTooLarge(err) {
				reject(c, metrics, "size", v.TooLargeMessage(), err)
				return
			}
			reject(c, metrics, "missing", validation.MsgNoImage, err)
			return
		}

		if err := v.ValidateContentType(fh.Header.Get("Content-Type")); err != nil {
			reject(c, metrics, "type", validation.MsgInvalidType, err)
			return
		}

		if err := v.ValidateSize(fh.Size); err != nil {
			reason := "size"
			if fh.Size <= 0 {
				reason = "missing"
			}
			reject(c, metrics, reason, errorMessage(err), err)
			return
		}

		c.Set(uploadKey, fh)
		c.Next()
	}
}

func uploadedFile(c *gin.Context) (*multipart.FileHeader, bool) {
	v, ok := c.Get(uploadKey)
	if !ok {
		return nil, false
	}
	fh, ok := v.(*multipart.FileHeader)
	return fh, ok
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func reject(c *gin.Context, metrics *observer.Metrics, reason, message string, err error) {
	metrics.RejectUpload(reason)
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"reason":     reason,
		"ip":         c.ClientIP(),
	}).Warn("Upload rejected")
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: message})
}
