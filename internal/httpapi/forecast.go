package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var forecastSummaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild", "Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// Forecast serves the sample protected resource. Access is decided by the
// middleware in front of it, so every tier returns the same payload.
func Forecast(c *gin.Context) {
	out := make([]string, len(forecastSummaries))
	copy(out, forecastSummaries)
	c.JSON(http.StatusOK, out)
}
