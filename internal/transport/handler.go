package transport

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go-land-inspector/internal/config"
	apperrors "go-land-inspector/internal/errors"
	"go-land-inspector/internal/logger"
	"go-land-inspector/internal/observer"
	"go-land-inspector/internal/service"
	"go-land-inspector/pkg/models"
	"go-land-inspector/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	msgModelFailure = "Failed to get a valid analysis from the model."
	msgInternal     = "Internal server error during analysis."
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// NewHandler wires the API routes:
//
//	POST /api/analyze  multipart image (+ optional lat/lng) -> report
//	GET  /api/health   liveness probe
//	GET  /metrics      Prometheus exposition
func NewHandler(svc service.AnalysisService, metrics *observer.Metrics, cfg *config.Config) http.Handler {
	r := gin.New()

	// Add middleware
	r.Use(
		requestID(),
		requestLogger(),
		recovery(),
		corsMiddleware(cfg.CORSAllowedOrigins),
	)

	validator := validation.NewUploadValidatorWithOptions(validation.DefaultAllowedTypes, cfg.MaxUploadSize)

	api := r.Group("/api")
	api.GET("/health", healthCheck)
	api.POST("/analyze", uploadGuard(validator, metrics), analyzeImage(svc, cfg))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func analyzeImage(svc service.AnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		fh, ok := uploadedFile(c)
		if !ok {
			respondError(c, http.StatusBadRequest, validation.MsgNoImage, nil)
			return
		}

		data, err := readUpload(fh)
		if err != nil {
			handleAnalysisError(c, apperrors.NewInternalError("read upload", err))
			return
		}

		report, err := svc.Analyze(ctx, service.AnalysisRequest{
			Image:     data,
			MIMEType:  validation.NormalizeContentType(fh.Header.Get("Content-Type")),
			Lat:       c.PostForm("lat"),
			Lng:       c.PostForm("lng"),
			RequestID: c.GetString(requestIDKey),
		})
		if err != nil {
			handleAnalysisError(c, err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func handleAnalysisError(c *gin.Context, err error) {
	code := apperrors.GetStatusCode(err)
	appErr, ok := apperrors.As(err)
	if !ok {
		respondError(c, code, msgInternal, err)
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondError(c, code, appErr.Message, nil)
	case apperrors.ErrorTypeModelCall, apperrors.ErrorTypeExtraction:
		respondError(c, code, msgModelFailure, err)
	default:
		respondError(c, http.StatusInternalServerError, msgInternal, err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(models.TimestampLayout),
	})
}

// respondError logs and writes the error body. Details carry the underlying
// cause, or the AppError's details when err is one.
func respondError(c *gin.Context, code int, message string, err error) {
	body := models.ErrorResponse{Error: message}
	entry := logger.WithFields(logrus.Fields{
		"request_id":  c.GetString(requestIDKey),
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})

	if err != nil {
		body.Details = errorDetails(err)
		entry = entry.WithError(err)
	}
	entry.Error("Request failed")

	c.AbortWithStatusJSON(code, body)
}

func errorDetails(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Details != "" {
			return appErr.Details
		}
		return appErr.Message
	}
	return err.Error()
}

func errorMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
