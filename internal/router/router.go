package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"okr-dashboard/internal/config"
)

func Setup(app *fiber.App, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redisClient, cfg)
}

func setupWebRoutes(router fiber.Router) {
	// Authentication pages
	router.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("auth/login", fiber.Map{
			"Title": "Login",
		})
	})

	router.Get("/register", func(c *fiber.Ctx) error {
		return c.Render("auth/register", fiber.Map{
			"Title": "Register",
		})
	})

	// Dashboard (protected client-side)
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Dashboard",
		})
	})

	// Master data pages
	router.Get("/initiatives", func(c *fiber.Ctx) error {
		return c.Render("initiatives/index", fiber.Map{
			"Title": "Initiatives",
		})
	})

	router.Get("/initiatives/:id", func(c *fiber.Ctx) error {
		return c.Render("initiatives/detail", fiber.Map{
			"Title": "Initiative Detail",
		})
	})

	router.Get("/areas", func(c *fiber.Ctx) error {
		return c.Render("areas/index", fiber.Map{
			"Title": "Areas",
		})
	})

	// Import pages
	router.Get("/imports", func(c *fiber.Ctx) error {
		return c.Render("imports/index", fiber.Map{
			"Title": "Import Sessions",
		})
	})

	router.Get("/imports/new", func(c *fiber.Ctx) error {
		return c.Render("imports/new", fiber.Map{
			"Title": "New Import",
		})
	})

	router.Get("/imports/:id", func(c *fiber.Ctx) error {
		return c.Render("imports/detail", fiber.Map{
			"Title": "Import Detail",
		})
	})
}
