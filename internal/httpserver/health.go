package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"emaktab-snapshot/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion = "1.0.0"
	ServiceName   = "emaktab-snapshot"
)

func healthBody(status string) gin.H {
	return gin.H{
		"status":  status,
		"version": HealthVersion,
		"service": ServiceName,
		"time":    response.DateTime(time.Now()),
	}
}

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the service is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, healthBody("healthy"))
}

// readyCheckHandler reports ready once the account store answers.
// @Summary Readiness Check
// @Description Check if the account store is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is ready"
// @Failure 503 {object} response.Resp "Store unreachable"
// @Router /ready [get]
func (srv *HTTPServer) readyCheckHandler(c *gin.Context) {
	if srv.readyCheck != nil {
		if err := srv.readyCheck(c.Request.Context()); err != nil {
			srv.l.Warnf(c.Request.Context(), "readiness check failed: %v", err)
			response.ServiceUnavailable(c, err)
			return
		}
	}
	response.OK(c, healthBody("ready"))
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the process is alive
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, healthBody("alive"))
}
