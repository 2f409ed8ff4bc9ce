package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sachinottawa/call-agent-backend/internal/handlers"
)

type RouterConfig struct {
	AllowedOrigins   []string
	ServiceName      string
	EnableTracing    bool
	ChartHandler     *handlers.ChartHandler
	UploadHandler    *handlers.UploadHandler
	GraphDataHandler *handlers.GraphDataHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	if cfg.EnableTracing {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	// One shared allow-list for every endpoint. Preflights answer 200 with no
	// body; origins outside the list get no Access-Control-Allow-Origin
	// header and are blocked browser-side.
	router.Use(cors.New(cors.Config{
		AllowOrigins:              cfg.AllowedOrigins,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/chart-data", cfg.ChartHandler.GetChartData)
		api.GET("/check-upload", cfg.UploadHandler.CheckUpload)
		api.POST("/upload-calls", cfg.UploadHandler.UploadCalls)
		api.GET("/get-user-graph-data", cfg.GraphDataHandler.GetUserGraphData)
		api.POST("/save-graph-data", cfg.GraphDataHandler.SaveGraphData)
	}

	return router
}
