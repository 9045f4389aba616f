package handler

import (
	"civiceye/backend/internal/config"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the HTTP-level settings of NewRouter.
type RouterConfig struct {
	ProofDir    string
	CORSOrigins []string
}

// NewRouter wires every route onto a gin engine with gin's default logger
// and recovery middleware.
func NewRouter(h *Handler, rc RouterConfig) *gin.Engine {
	r := gin.Default()

	apiCORS := cors.New(cors.Config{
		AllowOrigins:     rc.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	// Proof files are public and carry their own CORS headers.
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, config.ProofRoute+"/") {
			return
		}
		apiCORS(c)
	})

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "CivicEye Backend is running ✅")
	})
	r.GET("/health", h.Health)

	complaints := r.Group("/complaint")
	{
		complaints.POST("", h.CreateComplaint)
		complaints.GET("/all/:userId", h.GetAllComplaints)
		complaints.GET("/mine/:userId", h.GetMyComplaints)
		complaints.PUT("/status/:id", h.UpdateStatus)
		complaints.GET("/stats", h.GetStats)
	}

	proofs := r.Group(config.ProofRoute, func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	})
	proofs.Static("/", rc.ProofDir)

	return r
}

// Health handles GET /health by pinging the store.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Storage.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "store unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
