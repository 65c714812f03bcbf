package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/delbi-restaurant/reservations-api/internal/config"
	"github.com/delbi-restaurant/reservations-api/internal/store"
)

// HealthResponse reports the status of the service and its dependencies
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports service health including database and cache reachability
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(db store.DataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}
		healthy := true

		if err := db.Ping(c.Request.Context()); err != nil {
			services["database"] = "unavailable"
			healthy = false
		}

		if config.Redis != nil {
			if err := config.Redis.Ping(c.Request.Context()).Err(); err != nil {
				services["redis"] = "unavailable"
			}
		} else {
			services["redis"] = "disabled"
		}

		status := http.StatusOK
		overall := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		c.JSON(status, HealthResponse{Status: overall, Services: services})
	}
}
