package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sachinottawa/call-agent-backend/internal/services"
)

type ChartHandler struct {
	chartService services.ChartService
}

func NewChartHandler(chartService services.ChartService) *ChartHandler {
	return &ChartHandler{chartService: chartService}
}

// GetChartData serves the aggregated hourly conversion rows for an email.
// Rows come straight from the database-side aggregation; the frontend adapts
// and orders them.
func (ch *ChartHandler) GetChartData(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		RespondError(c, http.StatusBadRequest, "email is required")
		return
	}

	rows, err := ch.chartService.HourlyStats(c.Request.Context(), email)
	if err != nil {
		RespondServiceError(c, err, "Failed to fetch chart data")
		return
	}
	RespondOK(c, gin.H{"chartData": rows})
}
