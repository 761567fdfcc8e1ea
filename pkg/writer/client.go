// Package writer is the client for the blog generation and summarization
// service.
package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-blog-be/pkg/apperror"
)

const (
	GenerateFailedMessage  = "Failed to generate blog content. Please try again."
	SummarizeFailedMessage = "Failed to summarize content. Please try again."
)

// Bounds are the summary length limits in words.
type Bounds struct {
	Min int
	Max int
}

// DraftSummaryBounds are the bounds the composer always requests.
var DraftSummaryBounds = Bounds{Min: 100, Max: 150}

type GenerateRequest struct {
	Topic     string
	WordCount int
	Style     string
	Title     string
	Image     string
}

type Client struct {
	generationURL    string
	summarizationURL string
	http             *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(generationURL, summarizationURL string, opts ...Option) *Client {
	c := &Client{
		generationURL:    generationURL,
		summarizationURL: summarizationURL,
		http:             &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateBody struct {
	Topic     string `json:"input_text_field"`
	WordCount int    `json:"no_words"`
	Style     string `json:"blog_style"`
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
}

type summarizeBody struct {
	Content   string `json:"content"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

type replyBody struct {
	GeneratedText string `json:"generated_text"`
	Summary       string `json:"summary"`
	Error         string `json:"error"`
}

// Generate asks the service for a blog body. Failures are ExternalService
// errors carrying the service's own message when it sent one.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	reply, err := c.post(ctx, c.generationURL, generateBody{
		Topic:     req.Topic,
		WordCount: req.WordCount,
		Style:     req.Style,
		Title:     req.Title,
		Image:     req.Image,
	}, GenerateFailedMessage)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply.GeneratedText) == "" {
		return "", apperror.ExternalService(GenerateFailedMessage, errors.New("empty generated_text"))
	}
	return reply.GeneratedText, nil
}

func (c *Client) Summarize(ctx context.Context, content string, bounds Bounds) (string, error) {
	reply, err := c.post(ctx, c.summarizationURL, summarizeBody{
		Content:   content,
		MaxLength: bounds.Max,
		MinLength: bounds.Min,
	}, SummarizeFailedMessage)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply.Summary) == "" {
		return "", apperror.ExternalService(SummarizeFailedMessage, errors.New("empty summary"))
	}
	return reply.Summary, nil
}

func (c *Client) post(ctx context.Context, url string, body interface{}, fallback string) (*replyBody, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperror.ExternalService(fallback, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.ExternalService(fallback, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.ExternalService(fallback, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.ExternalService(fallback, err)
	}

	var reply replyBody
	decodeErr := json.Unmarshal(raw, &reply)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || reply.Error != "" {
		message := fallback
		if decodeErr == nil && strings.TrimSpace(reply.Error) != "" {
			message = reply.Error
		}
		return nil, apperror.ExternalService(message, fmt.Errorf("writer service returned status %d", resp.StatusCode))
	}
	if decodeErr != nil {
		return nil, apperror.ExternalService(fallback, decodeErr)
	}

	return &reply, nil
}
