package router

import (
	"folio_service/internal/comm"
	"folio_service/internal/portfolio/api/handlers"
	"folio_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes register portfolio routes
// @title Folio Portfolio Service API
// @version 1.0
// @description Profiles, credits, search and view tracking
// @host localhost:8082
// @BasePath /
func RegisterRoutes(app *fiber.App, portfolioHandler *handlers.PortfolioHandler) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", comm.ConnectCheck)
	app.Post("/debug", comm.DebugLogFlag)

	portfolioRoutes := app.Group("/portfolio")

	// public surface
	portfolioRoutes.Get("/profile/:id", portfolioHandler.GetProfile)
	portfolioRoutes.Get("/search", portfolioHandler.SearchProfiles)
	portfolioRoutes.Get("/credits/:id", portfolioHandler.ListCredits)
	portfolioRoutes.Get("/media/search", portfolioHandler.SearchMedia)
	portfolioRoutes.Get("/media/recommend", portfolioHandler.RecommendMedia)
	portfolioRoutes.Post("/media/:id/view", portfolioHandler.RecordView)

	// owner surface
	portfolioRoutes.Use(middlewares.JWTMiddleware())
	portfolioRoutes.Put("/profile", portfolioHandler.UpsertProfile)
	portfolioRoutes.Post("/credits", portfolioHandler.AddCredit)
	portfolioRoutes.Delete("/credits/:id", portfolioHandler.DeleteCredit)
}
