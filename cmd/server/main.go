package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"gameshelf/backend/internal/auth"
	"gameshelf/backend/internal/config"
	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/handler"
	"gameshelf/backend/internal/middleware"
	"gameshelf/backend/internal/rental"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "gameshelf/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Gameshelf API
// @version         1.0
// @description     This is the API for the Gameshelf board-game rental tracker.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// One lifecycle guard shared by every handler
	handler.Init(rental.NewService(database.DB, log.New(os.Stdout, "rental: ", log.LstdFlags)))

	router := gin.Default()
	router.Use(middleware.RequestID())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/login", handler.LoginAdmin)
		}

		// Public catalog routes
		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.GET("/:id", handler.GetGameByID)
		}

		// Public ledger routes
		rentalRoutes := apiV1.Group("/rentals")
		{
			rentalRoutes.GET("", handler.GetRentals)
			rentalRoutes.GET("/:id", handler.GetRentalByID)
		}

		// Admin routes (protected by bearer token)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AdminMiddleware())
		{
			// Games CRUD
			adminGameRoutes := adminRoutes.Group("/games")
			{
				adminGameRoutes.POST("", handler.CreateGame)
				adminGameRoutes.PUT("/:id", handler.UpdateGame)
				adminGameRoutes.DELETE("/:id", handler.DeleteGame)
			}

			// Rentals CRUD and lifecycle
			adminRentalRoutes := adminRoutes.Group("/rentals")
			{
				adminRentalRoutes.POST("", handler.CreateRental)
				adminRentalRoutes.PUT("/:id", handler.UpdateRental)
				adminRentalRoutes.POST("/:id/return", handler.ReturnRental)
				adminRentalRoutes.POST("/:id/extend", handler.ExtendRental)
				adminRentalRoutes.DELETE("/:id", handler.DeleteRental)
			}
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddress)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddress))
}
