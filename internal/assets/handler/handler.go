package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datacat/asset-service/internal/assets"
	"github.com/datacat/asset-service/pkg/logger"
)

type createRequest struct {
	AssetName        string `json:"asset_name"`
	AssetType        string `json:"asset_type"`
	Owner            string `json:"owner"`
	SensitivityLevel string `json:"sensitivity_level"`
}

// Pinger reports reachability of one dependency. The gorm pool and the redis
// client both satisfy it through small adapters in main.
type Pinger interface {
	Ping(c *gin.Context) error
}

// RegisterAssetRoutes wires the asset API onto the engine.
func RegisterAssetRoutes(r *gin.Engine, svc *assets.Service, db, cache Pinger) {
	r.GET("/health", func(c *gin.Context) {
		services := gin.H{"database": "up", "cache": "up"}
		healthy := true
		if err := db.Ping(c); err != nil {
			logger.Warnf("health: database unreachable: %v", err)
			services["database"] = "down"
			healthy = false
		}
		if err := cache.Ping(c); err != nil {
			logger.Warnf("health: cache unreachable: %v", err)
			services["cache"] = "down"
			healthy = false
		}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "services": services})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "services": services})
	})

	r.GET("/api/assets", func(c *gin.Context) {
		list, source, err := svc.ListAll(c.Request.Context())
		if err != nil {
			logger.Errorf("list assets: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve assets"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"source": source, "data": list})
	})

	r.POST("/api/assets", func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		a, err := svc.Create(c.Request.Context(), assets.CreateInput{
			Name:             req.AssetName,
			Type:             req.AssetType,
			Owner:            req.Owner,
			SensitivityLevel: req.SensitivityLevel,
		})
		if err != nil {
			if errors.Is(err, assets.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Errorf("create asset: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create asset"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "asset created", "data": a})
	})

	r.GET("/api/assets/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
			return
		}
		a, source, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, assets.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
				return
			}
			logger.Errorf("get asset %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve asset"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"source": source, "data": a})
	})

	r.GET("/api/metrics", func(c *gin.Context) {
		m, err := svc.Metrics(c.Request.Context())
		if err != nil {
			logger.Errorf("metrics: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"metrics": m, "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
}
