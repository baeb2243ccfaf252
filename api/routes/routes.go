package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lankalotto/ticket-validator/internal/config"
	"github.com/lankalotto/ticket-validator/internal/handlers"
	"github.com/lankalotto/ticket-validator/internal/metrics"
	"github.com/lankalotto/ticket-validator/internal/middleware"
)

// HandlerDependencies holds the handlers the router mounts
type HandlerDependencies struct {
	TicketHandler *handlers.TicketHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		tickets := public.Group("/tickets")
		{
			tickets.POST("/upload-image", deps.TicketHandler.UploadImage)
			tickets.POST("/process-ticket", deps.TicketHandler.ProcessTicket)
			tickets.GET("/:id", deps.TicketHandler.GetResult)
		}
	}

	// Paths used by released mobile clients
	legacy := router.Group("/lottery")
	{
		legacy.POST("/upload-image", deps.TicketHandler.UploadImage)
		legacy.POST("/process-ticket", deps.TicketHandler.ProcessTicket)
	}

	return router
}
