package router

import (
	"folio_service/internal/comm"
	"folio_service/internal/member/api/handlers"
	"folio_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes register member routes
// @title Folio Member Service API
// @version 1.0
// @description Accounts, sessions and subscriptions
// @host localhost:8083
// @BasePath /
func RegisterRoutes(app *fiber.App, memberHandler *handlers.MemberHandler) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", comm.ConnectCheck)
	app.Post("/debug", comm.DebugLogFlag)

	memberRoutes := app.Group("/member")
	memberRoutes.Post("/register", memberHandler.Register)
	memberRoutes.Post("/login", memberHandler.Login)

	memberRoutes.Use(middlewares.JWTMiddleware())
	memberRoutes.Post("/logout", memberHandler.Logout)
	memberRoutes.Post("/subscribe", memberHandler.Subscribe)
}
