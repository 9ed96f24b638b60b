package router

import (
	"folio_service/internal/comm"
	"folio_service/internal/media/api/handlers"
	"folio_service/pkg/middlewares"
	"folio_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes register media routes
// @title Folio Media Service API
// @version 1.0
// @description Upload, playback and thumbnail extraction for portfolio videos
// @host localhost:8081
// @BasePath /
func RegisterRoutes(app *fiber.App, mediaHandler *handlers.MediaHandler) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", comm.ConnectCheck)
	app.Post("/debug", comm.DebugLogFlag)

	mediaRoutes := app.Group("/media")
	mediaRoutes.Use(middlewares.JWTMiddleware())

	// Uploads are the paid half of the product.
	mediaRoutes.Post("/upload", middlewares.RequirePlan(token.PlanPro), mediaHandler.UploadMedia)

	mediaRoutes.Get("/:id", mediaHandler.GetMedia)
	mediaRoutes.Post("/:id/thumbnail", mediaHandler.ExtractThumbnail)
}
