package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"warehouse/app"
	"warehouse/domain/chart"
	"warehouse/domain/core"
	apperrors "warehouse/internal/errors"

	"github.com/gin-gonic/gin"
)

// Server exposes the ingestion and analytics engine over HTTP. Handlers
// are thin: they parse the request, call a service, and map errors to
// status codes. All logic lives behind the services.
type Server struct {
	router    *gin.Engine
	ingestion *app.IngestionService
	analytics *app.AnalyticsService
}

// NewServer wires routes for the dashboard API
func NewServer(ingestion *app.IngestionService, analytics *app.AnalyticsService) *Server {
	s := &Server{
		router:    gin.Default(),
		ingestion: ingestion,
		analytics: analytics,
	}
	s.registerRoutes()
	return s
}

// Run starts the HTTP server on the given port
func (s *Server) Run(port string) error {
	log.Printf("[API] Listening on :%s", port)
	return s.router.Run(":" + port)
}

// Handler exposes the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		data := v1.Group("/data")
		data.POST("/upload", s.handleUpload)
		data.POST("/sample", s.handleGenerateSample)
		data.GET("/list", s.handleList)
		data.GET("/:id", s.handleGet)
		data.GET("/:id/preview", s.handlePreview)
		data.DELETE("/:id", s.handleDelete)
		data.GET("/:id/stats", s.handleStats)
		data.GET("/:id/correlation", s.handleCorrelation)
		data.GET("/:id/quality", s.handleQuality)
		data.POST("/:id/chart", s.handleChart)

		v1.POST("/cache/clear", s.handleClearCache)
	}
}

func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is empty"})
		return
	}

	meta, err := s.ingestion.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), raw)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "file uploaded and processed successfully",
		"metadata": meta,
	})
}

type sampleRequest struct {
	FilenameHint string `json:"filename_hint" binding:"required"`
	RowCount     int    `json:"row_count"`
}

func (s *Server) handleGenerateSample(c *gin.Context) {
	var req sampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := s.ingestion.GenerateSample(c.Request.Context(), req.FilenameHint, req.RowCount)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metadata": meta})
}

func (s *Server) handleList(c *gin.Context) {
	datasets, err := s.ingestion.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(datasets),
		"datasets": datasets,
	})
}

func (s *Server) handleGet(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := s.ingestion.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handlePreview(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if limit > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit cannot exceed 1000 rows for preview"})
			return
		}
	}

	rows, err := s.ingestion.Preview(c.Request.Context(), id, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ingestion.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) handleStats(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := s.analytics.Summary(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": summary})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matrix, err := s.analytics.Correlation(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matrix)
}

func (s *Server) handleQuality(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.analytics.Quality(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleChart(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var spec chart.Spec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !spec.Kind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be one of line, bar, scatter, histogram, box, area"})
		return
	}

	result, err := s.analytics.Chart(c.Request.Context(), id, spec)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleClearCache(c *gin.Context) {
	s.analytics.ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

// respondError maps the domain error taxonomy to HTTP status codes and
// machine-readable error codes
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeInternalError
	message := "internal error"

	switch {
	case core.IsNotFoundError(err):
		status, code, message = http.StatusNotFound, apperrors.CodeNotFound, err.Error()
	case core.IsIngestionError(err), core.IsBindingError(err):
		status, code, message = http.StatusBadRequest, apperrors.CodeInvalidInput, err.Error()
	case errors.Is(err, core.ErrInsufficientData):
		status, code, message = http.StatusUnprocessableEntity, apperrors.CodeInsufficientData, err.Error()
	case errors.Is(err, core.ErrStorageUnavailable):
		log.Printf("[API] Metadata store failure: %v", err)
		status, code, message = http.StatusServiceUnavailable, apperrors.CodeDatabaseError, "metadata store unavailable"
	default:
		log.Printf("[API] Internal error: %v", err)
	}

	wrapped := apperrors.WithCode(code, err)
	c.JSON(status, gin.H{"code": apperrors.GetCode(wrapped), "error": message})
}
