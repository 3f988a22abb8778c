package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type HealthController struct {
	version string
}

func NewHealthController(version string) *HealthController {
	return &HealthController{version: version}
}

func (h *HealthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Service: "Galmuri API",
		Status:  "running",
		Version: h.version,
		Time:    time.Now().Format(time.RFC3339),
	})
}

func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
