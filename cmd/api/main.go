package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/nkoroleva/medtest_platform/configs"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/jobs"
	"github.com/nkoroleva/medtest_platform/notifications"
	"github.com/nkoroleva/medtest_platform/routes"
	"github.com/nkoroleva/medtest_platform/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	jobs.RefreshPlatformStats()
	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.RefreshPlatformStats)
	go c.Start()
	log.Println("✅ Cron job for platform stats scheduled successfully.")

	go websocket.RunHub()

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "MedTest Platform",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "MedTest Platform API is running",
		})
	})

	routes.AuthRoutes(app)
	routes.TestRoutes(app)
	routes.ModeratorRoutes(app)
	routes.AdminRoutes(app)
	routes.WebSocketRoutes(app)

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Fatal(app.Listen(":" + port))
}
