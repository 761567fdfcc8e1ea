package server

import (
	"fmt"

	"ai-blog-be/internal/bootstrap"
	"ai-blog-be/internal/config"
	"ai-blog-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// multipart overhead allowed on top of the image size limit
const formOverheadBytes = 1024 * 1024

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Upload.MaxBytes + formOverheadBytes,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, " + serverutils.AuthTokenHeader,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	app.Static(container.Storage.PublicPrefix, container.Storage.Dir)

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("HTTP", fmt.Sprintf("Server is running on http://localhost:%s", s.cfg.App.Port), nil)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.AuthController.RegisterRoutes(app)
	c.PostController.RegisterRoutes(app)
	c.ReviewController.RegisterRoutes(app)
	c.LiveFeedHandler.RegisterRoutes(app)
}
