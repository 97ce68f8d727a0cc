package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/pipeline"
)

const requestIDHeader = "X-Request-ID"

// ScanRequest is the body of POST /v1/scan
type ScanRequest struct {
	URL string `json:"url" binding:"required"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

func (s *Server) handleScan(c *gin.Context) {
	logger := s.logger.With("request_id", c.GetString(requestIDHeader), "handler", "scan")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, model.ErrorResult{Error: pipeline.MsgInvalidURL})
		return
	}

	result, err := s.scanner.Scan(c.Request.Context(), req.URL)
	if err != nil {
		msg := pipeline.UserMessage(err)
		logger.Info("scan failed", "url", req.URL, "error", err)
		c.JSON(statusFor(err, msg), model.ErrorResult{Error: msg})
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusFor maps a scan failure onto an HTTP status:
// bad input is 400, an upstream site or model failure is 502, anything else 500.
func statusFor(err error, msg string) int {
	switch {
	case pipeline.IsValidationError(err):
		return http.StatusBadRequest
	case msg == pipeline.MsgScanFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// requestID propagates or assigns X-Request-ID
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// observe logs and counts every request
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.RecordHTTPRequest(c.Request.Method, route, status)

		s.logger.Debug("request handled",
			"request_id", c.GetString(requestIDHeader),
			"method", c.Request.Method,
			"route", route,
			"status", status,
		)
	}
}
