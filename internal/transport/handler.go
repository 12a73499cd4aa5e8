package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"pupilscreen/internal/config"
	apperrors "pupilscreen/internal/errors"
	"pupilscreen/internal/logger"
	"pupilscreen/internal/observer"
	"pupilscreen/internal/service"
	"pupilscreen/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the HTTP surface: health, metrics, and the
// screening endpoints.
func NewHandler(screening service.ScreeningService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", screeningMetrics(metrics))
	r.POST("/screen", screenCapture(screening, cfg))
	r.POST("/screen/batch", screenBatch(screening, cfg))

	return r
}

func screenCapture(s service.ScreeningService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing screening request")

		var req models.ScreeningRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if (req.URL == "") == (req.ImageBase64 == "") {
			respondError(c, http.StatusBadRequest, "invalid request",
				apperrors.NewValidationError("exactly one of url and image_base64 must be set", nil))
			return
		}

		var response *models.ScreeningResponse
		var err error
		if req.URL != "" {
			response, err = s.ScreenFromURL(ctx, req.URL, req.DualEye)
		} else {
			var img image.Image
			img, err = decodeBase64Capture(req.ImageBase64)
			if err == nil {
				response, err = s.ScreenImage(ctx, img, req.DualEye)
			}
		}
		if err != nil {
			respondError(c, statusCodeFor(err), "screening failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"url":                 response.ImageURL,
			"dual_eye":            req.DualEye,
			"processing_time_sec": response.ProcessingTimeSec,
		}).Info("Screening completed successfully")

		c.JSON(http.StatusOK, response)
	}
}

func screenBatch(s service.ScreeningService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchScreeningRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if len(req.URLs) == 0 {
			respondError(c, http.StatusBadRequest, "invalid request",
				apperrors.NewValidationError("urls must not be empty", nil))
			return
		}

		c.JSON(http.StatusOK, s.ScreenBatch(ctx, req.URLs, req.DualEye))
	}
}

func screeningMetrics(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBase64Capture decodes an inline capture. Registered formats:
// JPEG, PNG, WebP.
func decodeBase64Capture(encoded string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.NewValidationError("image_base64 is not valid base64", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperrors.NewValidationError("image_base64 is not a decodable image", err)
	}
	return img, nil
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, statusCodeFor(err), "request processing failed", err)
		}
	}
}

func statusCodeFor(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
