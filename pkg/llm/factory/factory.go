package factory

import (
	"fmt"

	"ai-blog-be/pkg/llm"
	"ai-blog-be/pkg/llm/huggingface"
	"ai-blog-be/pkg/llm/ollama"
)

type Config struct {
	Provider           string
	Model              string
	OllamaBaseURL      string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama", "":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "huggingface":
		if cfg.HuggingFaceAPIKey == "" {
			return nil, fmt.Errorf("huggingface provider needs an API key")
		}
		return huggingface.NewHuggingFaceProvider(cfg.HuggingFaceAPIKey, cfg.HuggingFaceBaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
