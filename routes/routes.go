package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"george/handlers"
)

// RegisterChatRoutes registers the conversational endpoints.
func RegisterChatRoutes(r *gin.Engine) {
	api := r.Group("/api/chat")
	{
		api.POST("", handlers.SubmitChatTurn)
		api.GET("/:sessionID/history", handlers.GetChatHistory)
		api.DELETE("/:sessionID", handlers.EndChatSession)
	}
}

// RegisterBookingRoutes registers the structured booking endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/bookings", handlers.CreateBooking)
		api.GET("/rooms", handlers.ListRooms)
		api.GET("/availability", handlers.GetAvailability)
	}
}

// RegisterHealthRoute registers the liveness endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", handlers.HealthCheck)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r)
	RegisterBookingRoutes(r)
	RegisterHealthRoute(r)
}
