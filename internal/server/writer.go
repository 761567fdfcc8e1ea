package server

import (
	"fmt"

	"ai-blog-be/internal/controller"
	"ai-blog-be/internal/pkg/logger"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// WriterServer hosts the generation and summarization endpoints.
type WriterServer struct {
	app  *fiber.App
	port string
	log  logger.ILogger
}

func NewWriter(port, allowOrigins string, writer controller.IWriterController, log logger.ILogger) *WriterServer {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "POST, OPTIONS",
	}))
	app.Use(otelfiber.Middleware())

	writer.RegisterRoutes(app)

	return &WriterServer{app: app, port: port, log: log}
}

func (s *WriterServer) GetApp() *fiber.App {
	return s.app
}

func (s *WriterServer) Run() error {
	s.log.Info("HTTP", fmt.Sprintf("Writer service is running on http://localhost:%s", s.port), nil)
	return s.app.Listen(":" + s.port)
}
