package service

import (
	"context"
	"fmt"
	"strings"

	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/llm"
)

const (
	maxBlogWords          = 1500
	singlePromptWordLimit = 1200
	maxTokensPerRequest   = 2048
	tokensPerWord         = 1.33
	sectionAttempts       = 3
	generationTemperature = 0.7

	defaultSummaryMax = 250
	defaultSummaryMin = 100
)

// Provider errors are logged; clients only see these.
const (
	errGenerationUnavailable = "The writing model is unavailable. Please try again later."
	errSummaryUnavailable    = "The summarization model is unavailable. Please try again later."
)

var blogSections = []string{
	"Introduction: Provide an introduction to the topic and explain its importance.",
	"Key Features: Discuss the key features of the topic in detail.",
	"Examples: Provide real-world examples or case studies.",
	"Challenges and Limitations: Explain the challenges and limitations associated with the topic.",
	"Conclusion: Summarize the key takeaways.",
}

// IWriterService generates and summarizes blog text with an LLM.
type IWriterService interface {
	GenerateBlog(ctx context.Context, req *dto.GenerateBlogRequest) (*dto.GenerateBlogResponse, error)
	Summarize(ctx context.Context, req *dto.SummarizeRequest) (*dto.SummarizeResponse, error)
}

type writerService struct {
	llm llm.LLMProvider
	log logger.ILogger
}

func NewWriterService(provider llm.LLMProvider, log logger.ILogger) IWriterService {
	return &writerService{
		llm: provider,
		log: log,
	}
}

func (s *writerService) GenerateBlog(ctx context.Context, req *dto.GenerateBlogRequest) (*dto.GenerateBlogResponse, error) {
	if strings.TrimSpace(req.Topic) == "" || req.WordCount <= 0 || strings.TrimSpace(req.Style) == "" {
		return nil, apperror.Validation("Missing required fields: 'input_text_field', 'no_words', 'blog_style'")
	}

	words := req.WordCount
	if words > maxBlogWords {
		words = maxBlogWords
	}

	var (
		text string
		err  error
	)
	if words <= singlePromptWordLimit {
		text, err = s.generateSingle(ctx, req, words)
	} else {
		text, err = s.generateSections(ctx, req, words)
	}
	if err != nil {
		s.log.Error("WRITER", "Generation failed", map[string]interface{}{
			"topic": req.Topic,
			"words": words,
			"error": err.Error(),
		})
		return nil, apperror.ExternalService(errGenerationUnavailable, err)
	}

	s.log.Info("WRITER", "Blog generated", map[string]interface{}{"topic": req.Topic, "words": words})
	return &dto.GenerateBlogResponse{GeneratedText: text}, nil
}

func tokenBudget(words int) int {
	tokens := int(float64(words) * tokensPerWord)
	if tokens > maxTokensPerRequest {
		return maxTokensPerRequest
	}
	return tokens
}

func titleClause(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	return fmt.Sprintf(" titled '%s'", strings.TrimSpace(title))
}

func (s *writerService) generateSingle(ctx context.Context, req *dto.GenerateBlogRequest, words int) (string, error) {
	prompt := fmt.Sprintf(
		"Write a detailed and comprehensive blog%s on the topic '%s' for a %s audience.\n"+
			"The blog should be approximately %d words long, well-written, and informative. "+
			"Avoid redundancy, bullet points, or symbols.",
		titleClause(req.Title), req.Topic, req.Style, words,
	)

	out, err := s.llm.Generate(ctx, prompt,
		llm.WithMaxTokens(tokenBudget(words)),
		llm.WithTemperature(generationTemperature),
	)
	if err != nil {
		return "", err
	}
	return CleanGeneratedText(out), nil
}

// generateSections builds long posts from fixed sections. A section whose
// output repeats an earlier one is retried, and dropped if every attempt
// repeats.
func (s *writerService) generateSections(ctx context.Context, req *dto.GenerateBlogRequest, words int) (string, error) {
	wordsPerSection := words / len(blogSections)
	budget := tokenBudget(wordsPerSection)
	seen := make(map[string]struct{}, len(blogSections))

	var b strings.Builder
	for _, section := range blogSections {
		prompt := fmt.Sprintf(
			"Write a detailed and comprehensive blog section%s for a %s audience on the topic '%s'.\n%s\n"+
				"The section must be approximately %d words long. "+
				"Ensure the content is well-written, informative, and avoids redundancy, bullet points, or symbols.",
			titleClause(req.Title), req.Style, req.Topic, section, wordsPerSection,
		)

		for attempt := 0; attempt < sectionAttempts; attempt++ {
			out, err := s.llm.Generate(ctx, prompt,
				llm.WithMaxTokens(budget),
				llm.WithTemperature(generationTemperature),
			)
			if err != nil {
				return "", err
			}

			text := CleanGeneratedText(out)
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			b.WriteString(text)
			b.WriteString("\n\n")
			break
		}
	}

	return b.String(), nil
}

func (s *writerService) Summarize(ctx context.Context, req *dto.SummarizeRequest) (*dto.SummarizeResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperror.Validation("Content is required")
	}

	maxLen, minLen := defaultSummaryMax, defaultSummaryMin
	if req.MaxLength != nil {
		maxLen = *req.MaxLength
	}
	if req.MinLength != nil {
		minLen = *req.MinLength
	}
	if minLen <= 0 || maxLen <= 0 || minLen > maxLen {
		return nil, apperror.Validation("min_length and max_length must be positive with min_length <= max_length")
	}

	prompt := fmt.Sprintf(
		"Summarize the following blog post in plain prose between %d and %d words. "+
			"Do not add a heading, bullet points or commentary.\n\n%s",
		minLen, maxLen, req.Content,
	)
	out, err := s.llm.Generate(ctx, prompt,
		llm.WithMaxTokens(tokenBudget(maxLen)),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		s.log.Error("WRITER", "Summarization failed", map[string]interface{}{"error": err.Error()})
		return nil, apperror.ExternalService(errSummaryUnavailable, err)
	}

	return &dto.SummarizeResponse{Summary: strings.TrimSpace(out)}, nil
}

var bulletStripper = strings.NewReplacer("â€¢", "", "•", "", "*", "", "-", "")

// CleanGeneratedText strips bullet symbols and collapses whitespace.
func CleanGeneratedText(text string) string {
	return strings.Join(strings.Fields(bulletStripper.Replace(text)), " ")
}
