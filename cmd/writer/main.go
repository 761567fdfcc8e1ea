package main

import (
	"context"
	"log"

	"ai-blog-be/internal/config"
	"ai-blog-be/internal/controller"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/server"
	"ai-blog-be/internal/service"
	"ai-blog-be/internal/tracer"
	"ai-blog-be/pkg/llm/factory"
)

func main() {
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	shutdownTracer := tracer.InitTracer("ai-blog-writer", sysLogger)
	defer shutdownTracer(context.Background())

	provider, err := factory.NewLLMProvider(factory.Config{
		Provider:           cfg.Ai.LLMProvider,
		Model:              cfg.Ai.LLMModel,
		OllamaBaseURL:      cfg.Ai.OllamaBaseURL,
		HuggingFaceAPIKey:  cfg.Ai.HuggingFaceAPIKey,
		HuggingFaceBaseURL: cfg.Ai.HuggingFaceBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("WRITER", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	writerController := controller.NewWriterController(service.NewWriterService(provider, sysLogger))
	srv := server.NewWriter(cfg.Writer.Port, cfg.App.CorsAllowedOrigins, writerController, sysLogger)

	log.Fatal(srv.Run())
}
