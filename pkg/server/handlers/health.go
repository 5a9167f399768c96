package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/rerank-demo/pkg/rerank"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

const serviceName = "rerank-demo"

// HealthHandler handles health check requests
type HealthHandler struct {
	reranker *rerank.Reranker
	started  time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(r *rerank.Reranker) *HealthHandler {
	return &HealthHandler{
		reranker: r,
		started:  time.Now(),
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
			"go_version": GoVersion,
		},
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ready",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	}

	if h.reranker == nil {
		response["status"] = "not_ready"
		response["checks"] = gin.H{
			"reranker": gin.H{"status": "unhealthy", "error": "reranker not initialized"},
		}
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	response["checks"] = gin.H{
		"reranker": gin.H{"status": "healthy", "model": h.reranker.Model()},
		"system": gin.H{
			"status":       "healthy",
			"memory_usage": fmt.Sprintf("%.2f MB", float64(m.Alloc)/(1024*1024)),
			"goroutines":   runtime.NumGoroutine(),
		},
	}
	c.JSON(http.StatusOK, response)
}
