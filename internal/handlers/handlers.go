package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/image-pipeline/internal/pipeline"
	"github.com/example/image-pipeline/internal/usecase"
)

// MaxBodySize caps step request bodies; base64 inflates images by a third,
// so this allows originals of roughly 15MB.
const MaxBodySize = 20 << 20

// RegisterRoutes wires the HTTP handlers to the Gin router. The three step
// routes are what the external orchestrator invokes, one per state.
func RegisterRoutes(router *gin.Engine, uc *usecase.PipelineUseCase, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1", limitBody, authMiddleware)

	v1.POST("/steps/fetch", func(c *gin.Context) {
		var in pipeline.FetchInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if in.S3Bucket == "" || in.S3Key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "s3_bucket and s3_key are required"})
			return
		}

		payload, err := uc.Fetch(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "body": payload})
	})

	v1.POST("/steps/classify", func(c *gin.Context) {
		var p pipeline.Payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if p.ImageData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image_data is required"})
			return
		}

		payload, err := uc.Classify(c.Request.Context(), &p)
		if err != nil {
			if errors.Is(err, pipeline.ErrImageDecode) || errors.Is(err, pipeline.ErrResponseDecode) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		// The classifier envelope carries the payload as a JSON string, not
		// an object; downstream consumers parse body themselves.
		body, err := payload.MarshalJSON()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"statusCode": http.StatusOK, "body": string(body)})
	})

	v1.POST("/steps/filter", func(c *gin.Context) {
		var p pipeline.Payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		requestID, payload, err := uc.Filter(c.Request.Context(), &p)
		if err != nil {
			if errors.Is(err, pipeline.ErrConfidenceNotMet) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":      pipeline.ErrConfidenceNotMet.Error(),
					"request_id": requestID,
				})
				return
			}
			if errors.Is(err, pipeline.ErrNoInferences) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Accepted payloads are returned bare, no envelope.
		c.Header("X-Request-Id", requestID)
		c.JSON(http.StatusOK, payload)
	})

	v1.GET("/runs/:id", func(c *gin.Context) {
		requestID := c.Param("id")
		if requestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}

		run, err := uc.GetRun(c.Request.Context(), requestID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request_id": run.RequestID,
			"s3_bucket":  run.S3Bucket,
			"s3_key":     run.S3Key,
			"max_score":  run.MaxScore,
			"accepted":   run.Accepted,
			"caller":     run.Caller,
			"details":    run.Details,
			"created_at": run.CreatedAt,
		})
	})

	v1.GET("/metrics/summary", func(c *gin.Context) {
		summary, err := uc.GetMetricsSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}

func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)
	c.Next()
}
