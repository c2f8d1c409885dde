package main

import (
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/daffawrdhn/ladder-snake/pkg/game"
	srv "github.com/daffawrdhn/ladder-snake/pkg/gateway"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func main() {
	s := srv.Initialize(
		[]string{"*"}, // Allowed origins. Use * for all origins.
		game.DefaultConfig(),
	)

	// Initialize app
	app := fiber.New()

	// Configure routes
	app.Use("/", s.Upgrader)
	app.Get("/", websocket.New(s.Handler))

	// Initialize middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Start server
	app.Listen(":3000") // Listen on port 3000 by default. You can change this if needed.
}
